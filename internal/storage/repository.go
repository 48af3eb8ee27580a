// Package storage is the ledger store: durable keyed collections for
// transactions, budgets and categories, plus the single-slot system_meta
// map and the local credential records. It is the only component that
// persists state.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"monetus/internal/core"

	_ "modernc.org/sqlite"
)

// ErrUnavailable is the storage-failure kind: I/O, quota, corrupt file.
// Callers must not assume a failed multi-record operation was rolled back.
var ErrUnavailable = errors.New("ledger store unavailable")

// MetaLastProjectedMonth is the system_meta slot holding the YYYY-MM token
// of the last month the recurrence projector completed.
const MetaLastProjectedMonth = "last_projected_month"

// Repository is a SQLite-backed ledger store.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// storeErr tags a driver failure with the ErrUnavailable kind.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

// ── Transactions ────────────────────────────────────────────────────────

const transactionColumns = "id, entry_date, entry_type, category, amount, payment_method, is_expense, is_recurrent"

func scanTransaction(row interface{ Scan(...any) error }) (core.TransactionEntry, error) {
	var (
		e      core.TransactionEntry
		amount string
		method string
	)
	if err := row.Scan(&e.ID, &e.Date, &e.Type, &e.Category, &amount, &method, &e.IsExpense, &e.IsRecurrent); err != nil {
		return e, err
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return e, fmt.Errorf("decode amount %q: %w", amount, err)
	}
	e.Amount = dec
	e.PaymentMethod = core.PaymentMethod(method)
	return e, nil
}

func (r *Repository) GetTransactions(ctx context.Context) ([]core.TransactionEntry, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+transactionColumns+" FROM transactions")
	if err != nil {
		return nil, storeErr("get transactions", err)
	}
	defer rows.Close()

	var entries []core.TransactionEntry
	for rows.Next() {
		e, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr("scan transaction", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate transactions", err)
	}
	return entries, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (*core.TransactionEntry, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	e, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get transaction", err)
	}
	return &e, nil
}

// GetTransactionsByDateRange returns entries whose date falls inside the
// inclusive [start, end] range. Comparison is lexicographic over the
// YYYY-MM-DD text, so callers may pass a day-31 upper bound for any month.
func (r *Repository) GetTransactionsByDateRange(ctx context.Context, start, end string) ([]core.TransactionEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE entry_date >= ? AND entry_date <= ?", start, end)
	if err != nil {
		return nil, storeErr("get transactions by range", err)
	}
	defer rows.Close()

	var entries []core.TransactionEntry
	for rows.Next() {
		e, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr("scan transaction", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate transactions", err)
	}
	return entries, nil
}

// PutTransaction upserts by id, replacing the whole record.
func (r *Repository) PutTransaction(ctx context.Context, e core.TransactionEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, entry_date, entry_type, category, amount, payment_method, is_expense, is_recurrent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			entry_date = excluded.entry_date,
			entry_type = excluded.entry_type,
			category = excluded.category,
			amount = excluded.amount,
			payment_method = excluded.payment_method,
			is_expense = excluded.is_expense,
			is_recurrent = excluded.is_recurrent`,
		e.ID, e.Date, e.Type, e.Category, e.Amount.String(), string(e.PaymentMethod), e.IsExpense, e.IsRecurrent)
	if err != nil {
		return storeErr("put transaction", err)
	}

	slog.DebugContext(ctx, "Transaction stored",
		"id", e.ID,
		"date", e.Date,
		"amount", e.Amount.String(),
		"is_expense", e.IsExpense)
	return nil
}

// DeleteTransaction removes a record if present; deleting an unknown id is
// a no-op.
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return storeErr("delete transaction", err)
	}
	return nil
}

// ── Budgets ─────────────────────────────────────────────────────────────

const budgetColumns = "id, entry_type, category, is_expense, target_amount"

func scanBudget(row interface{ Scan(...any) error }) (core.BudgetItem, error) {
	var (
		b      core.BudgetItem
		target string
	)
	if err := row.Scan(&b.ID, &b.Type, &b.Category, &b.IsExpense, &target); err != nil {
		return b, err
	}
	dec, err := decimal.NewFromString(target)
	if err != nil {
		return b, fmt.Errorf("decode target amount %q: %w", target, err)
	}
	b.TargetAmount = dec
	return b, nil
}

func (r *Repository) GetBudgets(ctx context.Context) ([]core.BudgetItem, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+budgetColumns+" FROM budgets")
	if err != nil {
		return nil, storeErr("get budgets", err)
	}
	defer rows.Close()

	var items []core.BudgetItem
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, storeErr("scan budget", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate budgets", err)
	}
	return items, nil
}

// FindBudget returns the budget for a (type, category, isExpense) triple,
// or nil when none exists.
func (r *Repository) FindBudget(ctx context.Context, entryType, category string, isExpense bool) (*core.BudgetItem, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE entry_type = ? AND category = ? AND is_expense = ?",
		entryType, category, isExpense)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find budget", err)
	}
	return &b, nil
}

func (r *Repository) PutBudget(ctx context.Context, b core.BudgetItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, entry_type, category, is_expense, target_amount)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			entry_type = excluded.entry_type,
			category = excluded.category,
			is_expense = excluded.is_expense,
			target_amount = excluded.target_amount`,
		b.ID, b.Type, b.Category, b.IsExpense, b.TargetAmount.String())
	if err != nil {
		return storeErr("put budget", err)
	}

	slog.DebugContext(ctx, "Budget stored",
		"id", b.ID,
		"type", b.Type,
		"category", b.Category,
		"target", b.TargetAmount.String())
	return nil
}

func (r *Repository) DeleteBudget(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id); err != nil {
		return storeErr("delete budget", err)
	}
	return nil
}

// ── Categories ──────────────────────────────────────────────────────────

func (r *Repository) GetCategories(ctx context.Context) ([]core.CategoryItem, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT entry_type, category, is_expense FROM categories")
	if err != nil {
		return nil, storeErr("get categories", err)
	}
	defer rows.Close()

	var items []core.CategoryItem
	for rows.Next() {
		var c core.CategoryItem
		if err := rows.Scan(&c.Type, &c.Category, &c.IsExpense); err != nil {
			return nil, storeErr("scan category", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate categories", err)
	}
	return items, nil
}

// AddCategory inserts a classification pair unless its triple already
// exists. Re-adding an existing triple is a no-op, which is what both the
// local add path and the sync merge rely on.
func (r *Repository) AddCategory(ctx context.Context, c core.CategoryItem) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO categories (entry_type, category, is_expense) VALUES (?, ?, ?)",
		c.Type, c.Category, c.IsExpense)
	if err != nil {
		return storeErr("add category", err)
	}
	return nil
}

// ── System meta ─────────────────────────────────────────────────────────

// GetMeta reads a system_meta slot. The second return is false when the
// slot was never written.
func (r *Repository) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM system_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("get meta", err)
	}
	return value, true, nil
}

func (r *Repository) SetMeta(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO system_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return storeErr("set meta", err)
	}
	return nil
}

// ── Local users & profile ───────────────────────────────────────────────

// LocalUser is a stored credential record; the email is its identity.
type LocalUser struct {
	Email              string
	UserID             string
	Name               string
	PasswordHash       string
	SecurityQuestion   string
	SecurityAnswerHash string
}

// UserProfile is the single active signed-in profile.
type UserProfile struct {
	ID           string
	Name         string
	Email        string
	AuthProvider string
}

// GetLocalUser returns the credential record for an email, or nil when the
// email is unknown.
func (r *Repository) GetLocalUser(ctx context.Context, email string) (*LocalUser, error) {
	var u LocalUser
	err := r.db.QueryRowContext(ctx, `
		SELECT email, user_id, name, password_hash, security_question, security_answer_hash
		FROM local_users WHERE email = ?`, email).
		Scan(&u.Email, &u.UserID, &u.Name, &u.PasswordHash, &u.SecurityQuestion, &u.SecurityAnswerHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get local user", err)
	}
	return &u, nil
}

// CreateLocalUser inserts a credential record; an already-registered email
// is core.ErrDuplicate.
func (r *Repository) CreateLocalUser(ctx context.Context, u LocalUser) error {
	existing, err := r.GetLocalUser(ctx, u.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("email %s: %w", u.Email, core.ErrDuplicate)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO local_users (email, user_id, name, password_hash, security_question, security_answer_hash)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.UserID, u.Name, u.PasswordHash, u.SecurityQuestion, u.SecurityAnswerHash)
	if err != nil {
		return storeErr("create local user", err)
	}

	slog.InfoContext(ctx, "Local user registered", "email", u.Email, "user_id", u.UserID)
	return nil
}

func (r *Repository) UpdateLocalUser(ctx context.Context, u LocalUser) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE local_users
		SET user_id = ?, name = ?, password_hash = ?, security_question = ?, security_answer_hash = ?
		WHERE email = ?`,
		u.UserID, u.Name, u.PasswordHash, u.SecurityQuestion, u.SecurityAnswerHash, u.Email)
	if err != nil {
		return storeErr("update local user", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("email %s: %w", u.Email, core.ErrNotFound)
	}
	return nil
}

// SaveProfile replaces the active profile; only one is kept.
func (r *Repository) SaveProfile(ctx context.Context, p UserProfile) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_profile"); err != nil {
		return storeErr("clear profile", err)
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_profile (id, name, email, auth_provider) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, p.Email, p.AuthProvider)
	if err != nil {
		return storeErr("save profile", err)
	}
	return nil
}

// GetProfile returns the active profile, or nil when nobody is signed in.
func (r *Repository) GetProfile(ctx context.Context) (*UserProfile, error) {
	var p UserProfile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, auth_provider FROM user_profile LIMIT 1").
		Scan(&p.ID, &p.Name, &p.Email, &p.AuthProvider)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get profile", err)
	}
	return &p, nil
}

func (r *Repository) ClearProfile(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_profile"); err != nil {
		return storeErr("clear profile", err)
	}
	return nil
}

// ── Snapshot export & merge ─────────────────────────────────────────────

// ExportSnapshot copies the three synced collections out of the store.
func (r *Repository) ExportSnapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	transactions, err := r.GetTransactions(ctx)
	if err != nil {
		return snap, err
	}
	budgets, err := r.GetBudgets(ctx)
	if err != nil {
		return snap, err
	}
	categories, err := r.GetCategories(ctx)
	if err != nil {
		return snap, err
	}

	snap.Transactions = transactions
	snap.Budgets = budgets
	snap.Categories = categories
	return snap, nil
}

// MergeSnapshot applies an incoming snapshot: transactions and budgets are
// upserted per record by id (incoming wins on a matching id, the union of
// ids otherwise), categories are inserted only when their triple is new.
//
// The merge is deliberately not one atomic transaction across records: a
// failure mid-batch leaves the store partially merged, matching the sync
// failure semantics. Returns the number of records applied.
func (r *Repository) MergeSnapshot(ctx context.Context, snap core.Snapshot) (int, error) {
	applied := 0

	for _, e := range snap.Transactions {
		if err := r.PutTransaction(ctx, e); err != nil {
			return applied, fmt.Errorf("merge transaction %s: %w", e.ID, err)
		}
		applied++
	}
	for _, b := range snap.Budgets {
		if err := r.PutBudget(ctx, b); err != nil {
			return applied, fmt.Errorf("merge budget %s: %w", b.ID, err)
		}
		applied++
	}
	for _, c := range snap.Categories {
		if err := r.AddCategory(ctx, c); err != nil {
			return applied, fmt.Errorf("merge category %s/%s: %w", c.Type, c.Category, err)
		}
		applied++
	}

	slog.InfoContext(ctx, "Snapshot merged",
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets),
		"categories", len(snap.Categories))
	return applied, nil
}
