//go:build !integration

package controllers

import (
	"context"

	"blaze/internal/application/dto"
	apperrors "blaze/internal/shared_kernel/errors"
)

type fakeBuildUseCase struct {
	commands []dto.BuildContractCallCommand
	output   dto.ContractCallOutput
	err      *apperrors.AppError
}

func (f *fakeBuildUseCase) Execute(_ context.Context, command dto.BuildContractCallCommand) (dto.ContractCallOutput, *apperrors.AppError) {
	f.commands = append(f.commands, command)
	return f.output, f.err
}

type fakeSubmitUseCase struct {
	commands []dto.BuildContractCallCommand
	output   dto.SubmitContractCallOutput
	err      *apperrors.AppError
}

func (f *fakeSubmitUseCase) Execute(_ context.Context, command dto.BuildContractCallCommand) (dto.SubmitContractCallOutput, *apperrors.AppError) {
	f.commands = append(f.commands, command)
	return f.output, f.err
}

type fakeRelayUseCase struct {
	commands []dto.RelayTransferCommand
	output   dto.RelayTransferOutput
	err      *apperrors.AppError
}

func (f *fakeRelayUseCase) Execute(_ context.Context, command dto.RelayTransferCommand) (dto.RelayTransferOutput, *apperrors.AppError) {
	f.commands = append(f.commands, command)
	return f.output, f.err
}

type fakeFaucetUseCase struct {
	output dto.FaucetOutput
	err    *apperrors.AppError
}

func (f *fakeFaucetUseCase) Execute(_ context.Context, _ dto.FaucetCommand) (dto.FaucetOutput, *apperrors.AppError) {
	return f.output, f.err
}

type fakeBalanceUseCase struct {
	queries []dto.GetBalanceQuery
	output  dto.GetBalanceOutput
	err     *apperrors.AppError
}

func (f *fakeBalanceUseCase) Execute(_ context.Context, query dto.GetBalanceQuery) (dto.GetBalanceOutput, *apperrors.AppError) {
	f.queries = append(f.queries, query)
	return f.output, f.err
}

type fakeNonceUseCase struct {
	output dto.GetNonceOutput
	err    *apperrors.AppError
}

func (f *fakeNonceUseCase) Execute(_ context.Context, _ dto.GetNonceQuery) (dto.GetNonceOutput, *apperrors.AppError) {
	return f.output, f.err
}

type fakeUserBalancesUseCase struct {
	output dto.GetUserBalancesOutput
	err    *apperrors.AppError
}

func (f *fakeUserBalancesUseCase) Execute(_ context.Context, _ dto.GetUserBalancesQuery) (dto.GetUserBalancesOutput, *apperrors.AppError) {
	return f.output, f.err
}
