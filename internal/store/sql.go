package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flowAdsBack/internal/models"
	"flowAdsBack/internal/timeutil"
)

// SQL is the relational store over Postgres or MySQL.
type SQL struct {
	db       *sql.DB
	dialect  Dialect
	payments *sqlPayments
	invoices *sqlInvoices
	methods  *sqlMethods
}

// NewSQL wraps an open database handle.
func NewSQL(db *sql.DB, d Dialect) *SQL {
	return &SQL{
		db:       db,
		dialect:  d,
		payments: &sqlPayments{db: db, d: d},
		invoices: &sqlInvoices{db: db, d: d},
		methods:  &sqlMethods{db: db, d: d},
	}
}

func (s *SQL) Payments() PaymentStore { return s.payments }
func (s *SQL) Invoices() InvoiceStore { return s.invoices }
func (s *SQL) Methods() MethodStore   { return s.methods }
func (s *SQL) Close() error           { return s.db.Close() }

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// dateValue keeps only the calendar date of t.
func dateValue(t time.Time) string {
	return timeutil.FormatDate(t)
}

// dateFromDB reads a DATE column back as midnight in the service zone.
func dateFromDB(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, timeutil.Location())
}

type sqlPayments struct {
	db *sql.DB
	d  Dialect
}

const paymentColumns = `id, user_id, payment_type, amount, status, description, payment_method, campaign_id, transaction_id, invoice_id, payment_date`

func (s *sqlPayments) Append(ctx context.Context, p models.Payment) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.d.Rebind(`INSERT INTO payments (`+paymentColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`),
			p.ID, p.UserID, string(p.Type), p.Amount, string(p.Status), p.Description, p.Method,
			p.CampaignID, p.TransactionID, p.InvoiceID, p.CreatedAt.UTC())
		return err
	})
}

func (s *sqlPayments) List(ctx context.Context) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *sqlPayments) Get(ctx context.Context, id string) (models.Payment, error) {
	row := s.db.QueryRowContext(ctx, s.d.Rebind(`SELECT `+paymentColumns+` FROM payments WHERE id = ?`), id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Payment{}, models.ErrNoRecord
	}
	return p, err
}

func (s *sqlPayments) Replace(ctx context.Context, p models.Payment) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.d.Rebind(`UPDATE payments SET user_id = ?, payment_type = ?, amount = ?, status = ?, description = ?,
			payment_method = ?, campaign_id = ?, transaction_id = ?, invoice_id = ?, payment_date = ? WHERE id = ?`),
			p.UserID, string(p.Type), p.Amount, string(p.Status), p.Description, p.Method,
			p.CampaignID, p.TransactionID, p.InvoiceID, p.CreatedAt.UTC(), p.ID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(r rowScanner) (models.Payment, error) {
	var (
		p        models.Payment
		pType    string
		status   string
		paidDate time.Time
	)
	if err := r.Scan(&p.ID, &p.UserID, &pType, &p.Amount, &status, &p.Description, &p.Method,
		&p.CampaignID, &p.TransactionID, &p.InvoiceID, &paidDate); err != nil {
		return models.Payment{}, err
	}
	p.Type = models.PaymentType(pType)
	p.Status = models.PaymentStatus(status)
	p.CreatedAt = timeutil.InKolkata(paidDate)
	return p, nil
}

type sqlInvoices struct {
	db *sql.DB
	d  Dialect
}

const invoiceColumns = `id, user_id, user_type, amount, issue_date, due_date, status, payment_id, paid_at`

func (s *sqlInvoices) Append(ctx context.Context, inv models.Invoice) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.d.Rebind(`INSERT INTO invoices (`+invoiceColumns+`) VALUES (?,?,?,?,?,?,?,?,?)`),
			inv.ID, inv.UserID, inv.UserType, inv.Amount, dateValue(inv.IssueDate), dateValue(inv.DueDate),
			string(inv.Status), inv.PaymentID, nullTime(inv.PaidAt))
		if err != nil {
			return err
		}
		return s.insertItems(ctx, tx, inv)
	})
}

func (s *sqlInvoices) insertItems(ctx context.Context, tx *sql.Tx, inv models.Invoice) error {
	for i, it := range inv.Items {
		_, err := tx.ExecContext(ctx, s.d.Rebind(`INSERT INTO invoice_items (invoice_id, position, description, amount) VALUES (?,?,?,?)`),
			inv.ID, i, it.Description, it.Amount)
		if err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}
	return nil
}

func (s *sqlInvoices) List(ctx context.Context) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Invoice
	index := map[string]int{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		index[inv.ID] = len(out)
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	itemRows, err := s.db.QueryContext(ctx, `SELECT invoice_id, description, amount FROM invoice_items ORDER BY invoice_id, position`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			invoiceID string
			it        models.InvoiceItem
		)
		if err := itemRows.Scan(&invoiceID, &it.Description, &it.Amount); err != nil {
			return nil, err
		}
		if i, ok := index[invoiceID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, itemRows.Err()
}

func (s *sqlInvoices) Get(ctx context.Context, id string) (models.Invoice, error) {
	row := s.db.QueryRowContext(ctx, s.d.Rebind(`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`), id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Invoice{}, err
	}

	rows, err := s.db.QueryContext(ctx, s.d.Rebind(`SELECT description, amount FROM invoice_items WHERE invoice_id = ? ORDER BY position`), id)
	if err != nil {
		return models.Invoice{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.Description, &it.Amount); err != nil {
			return models.Invoice{}, err
		}
		inv.Items = append(inv.Items, it)
	}
	return inv, rows.Err()
}

func (s *sqlInvoices) Replace(ctx context.Context, inv models.Invoice) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.d.Rebind(`UPDATE invoices SET user_id = ?, user_type = ?, amount = ?, issue_date = ?, due_date = ?,
			status = ?, payment_id = ?, paid_at = ? WHERE id = ?`),
			inv.UserID, inv.UserType, inv.Amount, dateValue(inv.IssueDate), dateValue(inv.DueDate),
			string(inv.Status), inv.PaymentID, nullTime(inv.PaidAt), inv.ID)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.d.Rebind(`DELETE FROM invoice_items WHERE invoice_id = ?`), inv.ID); err != nil {
			return err
		}
		return s.insertItems(ctx, tx, inv)
	})
}

func scanInvoice(r rowScanner) (models.Invoice, error) {
	var (
		inv       models.Invoice
		status    string
		issueDate time.Time
		dueDate   time.Time
		paidAt    sql.NullTime
	)
	if err := r.Scan(&inv.ID, &inv.UserID, &inv.UserType, &inv.Amount, &issueDate, &dueDate,
		&status, &inv.PaymentID, &paidAt); err != nil {
		return models.Invoice{}, err
	}
	inv.Status = models.InvoiceStatus(status)
	inv.IssueDate = dateFromDB(issueDate)
	inv.DueDate = dateFromDB(dueDate)
	if paidAt.Valid {
		t := timeutil.InKolkata(paidAt.Time)
		inv.PaidAt = &t
	}
	return inv, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

type sqlMethods struct {
	db *sql.DB
	d  Dialect
}

func (s *sqlMethods) Append(ctx context.Context, m models.PaymentMethod) error {
	details, err := json.Marshal(m.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.d.Rebind(`INSERT INTO payment_methods (id, user_id, method_type, details, added_date) VALUES (?,?,?,?,?)`),
			m.ID, m.UserID, string(m.Type), string(details), m.AddedDate.UTC())
		return err
	})
}

func (s *sqlMethods) ListByUser(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, s.d.Rebind(`SELECT id, user_id, method_type, details, added_date FROM payment_methods WHERE user_id = ? ORDER BY seq`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PaymentMethod
	for rows.Next() {
		var (
			m       models.PaymentMethod
			mType   string
			details string
			added   time.Time
		)
		if err := rows.Scan(&m.ID, &m.UserID, &mType, &details, &added); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(details), &m.Details); err != nil {
			return nil, fmt.Errorf("decode details for %s: %w", m.ID, err)
		}
		m.Type = models.PaymentMethodType(mType)
		m.AddedDate = timeutil.InKolkata(added)
		out = append(out, m)
	}
	return out, rows.Err()
}
