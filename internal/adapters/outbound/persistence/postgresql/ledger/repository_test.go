//go:build !integration

package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestLockOrderSortsAndDeduplicates(t *testing.T) {
	got := lockOrder("SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G", "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7", "SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G")
	if len(got) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(got))
	}
	if got[0] != "SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7" {
		t.Fatalf("expected lexical order, got %v", got)
	}
}

func TestParseAmount(t *testing.T) {
	amount, appErr := parseAmount(" 340282366920938463463374607431768211455 ", "balance")
	if appErr != nil {
		t.Fatalf("expected max uint128 to parse, got %+v", appErr)
	}
	if amount.String() != "340282366920938463463374607431768211455" {
		t.Fatalf("unexpected amount %s", amount.String())
	}

	_, appErr = parseAmount("340282366920938463463374607431768211456", "balance")
	if appErr == nil {
		t.Fatalf("expected overflow to be rejected")
	}
	if appErr.Code != "ledger_value_corrupt" {
		t.Fatalf("expected ledger_value_corrupt, got %s", appErr.Code)
	}
	if appErr.Details["column"] != "balance" {
		t.Fatalf("expected column detail, got %+v", appErr.Details)
	}
}

func TestParseNonce(t *testing.T) {
	nonce, appErr := parseNonce("18446744073709551615")
	if appErr != nil {
		t.Fatalf("expected max uint64 nonce to parse, got %+v", appErr)
	}
	if nonce != ^uint64(0) {
		t.Fatalf("unexpected nonce %d", nonce)
	}

	if _, appErr := parseNonce("-1"); appErr == nil {
		t.Fatalf("expected negative nonce to be rejected")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			if got := isUniqueViolation(testCase.err); got != testCase.want {
				t.Fatalf("expected %v, got %v", testCase.want, got)
			}
		})
	}
}
