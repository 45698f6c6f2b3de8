package use_cases

import "github.com/google/uuid"

type IDGenerator func() string

func NewUUIDGenerator() IDGenerator {
	return uuid.NewString
}
