package ledger

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"blaze/internal/application/dto"
	portsout "blaze/internal/application/ports/out"
	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

var _ portsout.LedgerRepository = (*Repository)(nil)

func NewRepository(db *sql.DB, logger *log.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) Balance(ctx context.Context, contract, address string) (valueobjects.BaseUnits, *apperrors.AppError) {
	const query = `
SELECT balance::text
FROM blaze.ledger_accounts
WHERE contract = $1 AND address = $2
`

	var raw string
	err := r.db.QueryRowContext(ctx, query, contract, address).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return valueobjects.BaseUnits{}, nil
	}
	if err != nil {
		return valueobjects.BaseUnits{}, apperrors.NewInternal(
			"ledger_balance_query_failed",
			"failed to query ledger balance",
			map[string]any{"contract": contract, "address": address, "error": err.Error()},
		)
	}

	return parseAmount(raw, "balance")
}

func (r *Repository) Nonce(ctx context.Context, contract, address string) (uint64, *apperrors.AppError) {
	const query = `
SELECT nonce::text
FROM blaze.ledger_accounts
WHERE contract = $1 AND address = $2
`

	var raw string
	err := r.db.QueryRowContext(ctx, query, contract, address).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.NewInternal(
			"ledger_nonce_query_failed",
			"failed to query ledger nonce",
			map[string]any{"contract": contract, "address": address, "error": err.Error()},
		)
	}

	return parseNonce(raw)
}

func (r *Repository) Credit(
	ctx context.Context,
	contract string,
	address string,
	amount valueobjects.BaseUnits,
) (valueobjects.BaseUnits, *apperrors.AppError) {
	const query = `
INSERT INTO blaze.ledger_accounts (contract, address, balance)
VALUES ($1, $2, $3::numeric)
ON CONFLICT (contract, address) DO UPDATE
SET balance = blaze.ledger_accounts.balance + EXCLUDED.balance,
    updated_at = now()
RETURNING balance::text
`

	var raw string
	if err := r.db.QueryRowContext(ctx, query, contract, address, amount.String()).Scan(&raw); err != nil {
		return valueobjects.BaseUnits{}, apperrors.NewInternal(
			"ledger_credit_failed",
			"failed to credit ledger balance",
			map[string]any{"contract": contract, "address": address, "error": err.Error()},
		)
	}

	r.logf("ledger credited contract=%s address=%s amount=%s balance=%s", contract, address, amount.String(), raw)
	return parseAmount(raw, "balance")
}

func (r *Repository) ApplyTransfer(
	ctx context.Context,
	transfer entities.QueuedTransfer,
) (dto.ApplyTransferOutput, *apperrors.AppError) {
	details := map[string]any{
		"contract": transfer.Contract,
		"from":     transfer.From,
		"to":       transfer.To,
		"nonce":    transfer.Nonce,
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return dto.ApplyTransferOutput{}, apperrors.NewInternal(
			"ledger_tx_begin_failed",
			"failed to begin ledger transaction",
			withError(details, err),
		)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ensureAccounts = `
INSERT INTO blaze.ledger_accounts (contract, address)
VALUES ($1, $2), ($1, $3)
ON CONFLICT (contract, address) DO NOTHING
`
	if _, err := tx.ExecContext(ctx, ensureAccounts, transfer.Contract, transfer.From, transfer.To); err != nil {
		return dto.ApplyTransferOutput{}, apperrors.NewInternal(
			"ledger_account_init_failed",
			"failed to initialize ledger accounts",
			withError(details, err),
		)
	}

	accounts, appErr := lockAccounts(ctx, tx, transfer.Contract, transfer.From, transfer.To)
	if appErr != nil {
		return dto.ApplyTransferOutput{}, appErr
	}

	sender := accounts[transfer.From]
	if transfer.Nonce <= sender.nonce {
		return dto.ApplyTransferOutput{}, apperrors.NewConflict(
			"nonce_replayed",
			"nonce must be greater than the last accepted nonce",
			mergeDetails(details, map[string]any{"last_nonce": sender.nonce}),
		)
	}
	if sender.balance.Cmp(transfer.Amount) < 0 {
		return dto.ApplyTransferOutput{}, apperrors.NewValidation(
			"insufficient_balance",
			"sender balance is lower than transfer amount",
			mergeDetails(details, map[string]any{
				"balance": sender.balance.String(),
				"amount":  transfer.Amount.String(),
			}),
		)
	}

	const debit = `
UPDATE blaze.ledger_accounts
SET balance = balance - $3::numeric,
    nonce = $4::numeric,
    updated_at = now()
WHERE contract = $1 AND address = $2
RETURNING balance::text
`
	var fromRaw string
	if err := tx.QueryRowContext(
		ctx,
		debit,
		transfer.Contract,
		transfer.From,
		transfer.Amount.String(),
		strconv.FormatUint(transfer.Nonce, 10),
	).Scan(&fromRaw); err != nil {
		return dto.ApplyTransferOutput{}, apperrors.NewInternal(
			"ledger_debit_failed",
			"failed to debit sender balance",
			withError(details, err),
		)
	}

	const credit = `
UPDATE blaze.ledger_accounts
SET balance = balance + $3::numeric,
    updated_at = now()
WHERE contract = $1 AND address = $2
RETURNING balance::text
`
	var toRaw string
	if err := tx.QueryRowContext(ctx, credit, transfer.Contract, transfer.To, transfer.Amount.String()).Scan(&toRaw); err != nil {
		return dto.ApplyTransferOutput{}, apperrors.NewInternal(
			"ledger_credit_failed",
			"failed to credit recipient balance",
			withError(details, err),
		)
	}

	const enqueue = `
INSERT INTO blaze.queued_transfers (
  id, token, contract, from_address, to_address, amount, nonce, signature, status, created_at
)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8, $9, $10)
`
	if _, err := tx.ExecContext(
		ctx,
		enqueue,
		transfer.ID,
		transfer.Token,
		transfer.Contract,
		transfer.From,
		transfer.To,
		transfer.Amount.String(),
		strconv.FormatUint(transfer.Nonce, 10),
		transfer.Signature,
		string(entities.TransferStatusQueued),
		transfer.CreatedAt.UTC(),
	); err != nil {
		if isUniqueViolation(err) {
			return dto.ApplyTransferOutput{}, apperrors.NewConflict(
				"nonce_replayed",
				"transfer with this nonce is already queued",
				details,
			)
		}
		return dto.ApplyTransferOutput{}, apperrors.NewInternal(
			"ledger_enqueue_failed",
			"failed to enqueue transfer",
			withError(details, err),
		)
	}

	const pending = `
SELECT count(*)
FROM blaze.queued_transfers
WHERE contract = $1 AND status = 'queued'
`
	var queueLength int
	if err := tx.QueryRowContext(ctx, pending, transfer.Contract).Scan(&queueLength); err != nil {
		return dto.ApplyTransferOutput{}, apperrors.NewInternal(
			"ledger_queue_count_failed",
			"failed to count queued transfers",
			withError(details, err),
		)
	}

	if err := tx.Commit(); err != nil {
		return dto.ApplyTransferOutput{}, apperrors.NewInternal(
			"ledger_tx_commit_failed",
			"failed to commit ledger transaction",
			withError(details, err),
		)
	}
	committed = true

	fromBalance, appErr := parseAmount(fromRaw, "balance")
	if appErr != nil {
		return dto.ApplyTransferOutput{}, appErr
	}
	toBalance, appErr := parseAmount(toRaw, "balance")
	if appErr != nil {
		return dto.ApplyTransferOutput{}, appErr
	}

	r.logf(
		"transfer queued id=%s contract=%s from=%s to=%s amount=%s nonce=%d queue_length=%d",
		transfer.ID,
		transfer.Contract,
		transfer.From,
		transfer.To,
		transfer.Amount.String(),
		transfer.Nonce,
		queueLength,
	)

	return dto.ApplyTransferOutput{
		FromBalance: fromBalance,
		ToBalance:   toBalance,
		Nonce:       transfer.Nonce,
		QueueLength: queueLength,
	}, nil
}

func (r *Repository) QueueLengths(ctx context.Context) (map[string]int, *apperrors.AppError) {
	const query = `
SELECT contract, count(*)
FROM blaze.queued_transfers
WHERE status = 'queued'
GROUP BY contract
`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternal(
			"ledger_queue_lengths_failed",
			"failed to query queue lengths",
			map[string]any{"error": err.Error()},
		)
	}
	defer rows.Close()

	lengths := map[string]int{}
	for rows.Next() {
		var contract string
		var count int
		if err := rows.Scan(&contract, &count); err != nil {
			return nil, apperrors.NewInternal(
				"ledger_queue_lengths_failed",
				"failed to scan queue length row",
				map[string]any{"error": err.Error()},
			)
		}
		lengths[contract] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"ledger_queue_lengths_failed",
			"failed while iterating queue length rows",
			map[string]any{"error": err.Error()},
		)
	}

	return lengths, nil
}

func (r *Repository) ListQueued(ctx context.Context, contract string, limit int) ([]entities.QueuedTransfer, *apperrors.AppError) {
	if limit <= 0 {
		return []entities.QueuedTransfer{}, nil
	}

	const query = `
SELECT id::text, token, contract, from_address, to_address, amount::text, nonce::text, signature, created_at
FROM blaze.queued_transfers
WHERE contract = $1 AND status = 'queued'
ORDER BY created_at ASC, id ASC
LIMIT $2
`

	rows, err := r.db.QueryContext(ctx, query, contract, limit)
	if err != nil {
		return nil, apperrors.NewInternal(
			"ledger_list_queued_failed",
			"failed to query queued transfers",
			map[string]any{"contract": contract, "error": err.Error()},
		)
	}
	defer rows.Close()

	transfers := make([]entities.QueuedTransfer, 0, limit)
	for rows.Next() {
		var (
			transfer  entities.QueuedTransfer
			amountRaw string
			nonceRaw  string
		)
		if err := rows.Scan(
			&transfer.ID,
			&transfer.Token,
			&transfer.Contract,
			&transfer.From,
			&transfer.To,
			&amountRaw,
			&nonceRaw,
			&transfer.Signature,
			&transfer.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternal(
				"ledger_list_queued_failed",
				"failed to scan queued transfer row",
				map[string]any{"contract": contract, "error": err.Error()},
			)
		}

		amount, appErr := parseAmount(amountRaw, "amount")
		if appErr != nil {
			return nil, appErr
		}
		nonce, appErr := parseNonce(nonceRaw)
		if appErr != nil {
			return nil, appErr
		}
		transfer.Amount = amount
		transfer.Nonce = nonce
		transfer.Status = entities.TransferStatusQueued
		transfer.CreatedAt = transfer.CreatedAt.UTC()
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal(
			"ledger_list_queued_failed",
			"failed while iterating queued transfer rows",
			map[string]any{"contract": contract, "error": err.Error()},
		)
	}

	return transfers, nil
}

func (r *Repository) MarkSettled(ctx context.Context, ids []string, txID string, settledAt time.Time) *apperrors.AppError {
	if len(ids) == 0 {
		return nil
	}

	const query = `
UPDATE blaze.queued_transfers
SET status = 'settled',
    tx_id = $2,
    settled_at = $3
WHERE id::text = ANY(string_to_array($1, ','))
  AND status = 'queued'
`

	result, err := r.db.ExecContext(ctx, query, strings.Join(ids, ","), txID, settledAt.UTC())
	if err != nil {
		return apperrors.NewInternal(
			"ledger_mark_settled_failed",
			"failed to mark transfers settled",
			map[string]any{"tx_id": txID, "error": err.Error()},
		)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows != int64(len(ids)) {
		r.logf("settlement marked fewer transfers than requested tx_id=%s requested=%d updated=%d", txID, len(ids), rows)
	}

	return nil
}

type accountState struct {
	balance valueobjects.BaseUnits
	nonce   uint64
}

// lockAccounts takes row locks in address order so concurrent opposite-direction
// transfers cannot deadlock.
func lockAccounts(ctx context.Context, tx *sql.Tx, contract string, addresses ...string) (map[string]accountState, *apperrors.AppError) {
	ordered := lockOrder(addresses...)

	const query = `
SELECT balance::text, nonce::text
FROM blaze.ledger_accounts
WHERE contract = $1 AND address = $2
FOR UPDATE
`

	accounts := make(map[string]accountState, len(ordered))
	for _, address := range ordered {
		var balanceRaw, nonceRaw string
		if err := tx.QueryRowContext(ctx, query, contract, address).Scan(&balanceRaw, &nonceRaw); err != nil {
			return nil, apperrors.NewInternal(
				"ledger_account_lock_failed",
				"failed to lock ledger account",
				map[string]any{"contract": contract, "address": address, "error": err.Error()},
			)
		}

		balance, appErr := parseAmount(balanceRaw, "balance")
		if appErr != nil {
			return nil, appErr
		}
		nonce, appErr := parseNonce(nonceRaw)
		if appErr != nil {
			return nil, appErr
		}
		accounts[address] = accountState{balance: balance, nonce: nonce}
	}

	return accounts, nil
}

func lockOrder(addresses ...string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, address := range addresses {
		if _, exists := seen[address]; exists {
			continue
		}
		seen[address] = struct{}{}
		out = append(out, address)
	}
	sort.Strings(out)
	return out
}

func parseAmount(raw, column string) (valueobjects.BaseUnits, *apperrors.AppError) {
	amount, appErr := valueobjects.ParseBaseUnits(strings.TrimSpace(raw))
	if appErr != nil {
		return valueobjects.BaseUnits{}, apperrors.NewInternal(
			"ledger_value_corrupt",
			"stored ledger amount is invalid",
			map[string]any{"column": column, "value": raw},
		)
	}
	return amount, nil
}

func parseNonce(raw string) (uint64, *apperrors.AppError) {
	nonce, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.NewInternal(
			"ledger_value_corrupt",
			"stored ledger nonce is invalid",
			map[string]any{"column": "nonce", "value": raw},
		)
	}
	return nonce, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == "23505"
}

func withError(details map[string]any, err error) map[string]any {
	return mergeDetails(details, map[string]any{"error": err.Error()})
}

func mergeDetails(base map[string]any, extras map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extras))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extras {
		out[key] = value
	}
	return out
}

func (r *Repository) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
