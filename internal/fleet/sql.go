package fleet

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"flowAdsBack/internal/models"
	"flowAdsBack/internal/store"
	"flowAdsBack/internal/timeutil"
)

// SQLRepository implements Repository over the relational schema created by
// store.Migrate.
type SQLRepository struct {
	db *sql.DB
	d  store.Dialect
}

func NewSQLRepository(db *sql.DB, d store.Dialect) *SQLRepository {
	return &SQLRepository{db: db, d: d}
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insert runs an INSERT and returns the generated id for either dialect.
func (r *SQLRepository) insert(ctx context.Context, q execQuerier, query string, args ...any) (int64, error) {
	if r.d == store.Postgres {
		var id int64
		err := q.QueryRowContext(ctx, r.d.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) error {
	return store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.d.Rebind(query), args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return models.ErrNoRecord
		}
		return nil
	})
}

func (r *SQLRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

const userColumns = `id, name, email, password, role, COALESCE(phone, ''), created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNoRecord
	}
	u.CreatedAt = timeutil.InKolkata(u.CreatedAt)
	return u, err
}

func (r *SQLRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *SQLRepository) GetUser(ctx context.Context, id int64) (models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, r.d.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id))
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, r.d.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), email))
}

func (r *SQLRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = timeutil.Now()
	}
	err := store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := r.insert(ctx, tx, `INSERT INTO users (name, email, password, role, phone, created_at) VALUES (?,?,?,?,?,?)`,
			u.Name, u.Email, u.Password, u.Role, u.Phone, u.CreatedAt.UTC())
		if err != nil {
			return err
		}
		u.ID = id
		return nil
	})
	if store.IsUniqueViolation(err) {
		return models.User{}, models.ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

const driverSelect = `SELECT d.id, d.user_id, u.name, u.email, COALESCE(u.phone, ''),
	COALESCE(d.vehicle_model, ''), COALESCE(d.vehicle_number, ''), COALESCE(d.vehicle_color, ''), COALESCE(d.license_number, ''),
	d.status, d.current_location_area, d.current_location_lat, d.current_location_lon,
	d.kms_today, d.hours_active, d.current_ad_displaying
	FROM drivers d JOIN users u ON d.user_id = u.id`

func scanDriver(row interface{ Scan(...any) error }) (models.Driver, error) {
	var (
		d     models.Driver
		curAd sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Email, &d.Phone,
		&d.VehicleModel, &d.VehicleNumber, &d.VehicleColor, &d.LicenseNumber,
		&d.Status, &d.Area, &d.Lat, &d.Lon, &d.KmsToday, &d.HoursActive, &curAd)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Driver{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Driver{}, err
	}
	if curAd.Valid {
		v := curAd.Int64
		d.CurrentAdDisplaying = &v
	}
	return d, nil
}

func (r *SQLRepository) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	rows, err := r.db.QueryContext(ctx, driverSelect+` ORDER BY d.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLRepository) GetDriver(ctx context.Context, id int64) (models.Driver, error) {
	return scanDriver(r.db.QueryRowContext(ctx, r.d.Rebind(driverSelect+` WHERE d.id = ?`), id))
}

func (r *SQLRepository) GetDriverByUser(ctx context.Context, userID int64) (models.Driver, error) {
	return scanDriver(r.db.QueryRowContext(ctx, r.d.Rebind(driverSelect+` WHERE d.user_id = ?`), userID))
}

func (r *SQLRepository) CreateDriver(ctx context.Context, d models.Driver) (models.Driver, error) {
	applyDriverDefaults(&d)
	err := store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := r.insert(ctx, tx, `INSERT INTO drivers (user_id, vehicle_model, vehicle_number, vehicle_color, license_number,
			status, current_location_area, current_location_lat, current_location_lon, kms_today, hours_active)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			d.UserID, d.VehicleModel, d.VehicleNumber, d.VehicleColor, d.LicenseNumber,
			d.Status, d.Area, d.Lat, d.Lon, d.KmsToday, d.HoursActive)
		if err != nil {
			return err
		}
		d.ID = id
		return nil
	})
	if store.IsForeignKeyViolation(err) {
		return models.Driver{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Driver{}, err
	}
	return r.GetDriver(ctx, d.ID)
}

func (r *SQLRepository) UpdateDriverLocation(ctx context.Context, id int64, loc models.DriverLocation) error {
	return r.exec(ctx, `UPDATE drivers SET current_location_area = ?, current_location_lat = ?, current_location_lon = ? WHERE id = ?`,
		loc.Area, loc.Lat, loc.Lon, id)
}

const campaignSelect = `SELECT c.id, c.name, c.advertiser_id, u.name, c.status, c.ad_type, c.budget, c.spent,
	c.views, c.impressions, c.start_date, c.end_date, c.created_at
	FROM campaigns c JOIN users u ON c.advertiser_id = u.id`

func scanCampaign(row interface{ Scan(...any) error }) (models.Campaign, error) {
	var (
		c          models.Campaign
		start, end sql.NullTime
	)
	err := row.Scan(&c.ID, &c.Name, &c.AdvertiserID, &c.Advertiser, &c.Status, &c.AdType, &c.Budget, &c.Spent,
		&c.Views, &c.Impressions, &start, &end, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Campaign{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Campaign{}, err
	}
	c.StartDate = nullDate(start)
	c.EndDate = nullDate(end)
	c.Regions = []string{}
	return c, nil
}

func nullDate(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Date(v.Time.Year(), v.Time.Month(), v.Time.Day(), 0, 0, 0, 0, timeutil.Location())
	return &t
}

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeutil.FormatDate(*t)
}

func (r *SQLRepository) ListCampaigns(ctx context.Context, advertiserID *int64) ([]models.Campaign, error) {
	query := campaignSelect
	var args []any
	if advertiserID != nil {
		query += ` WHERE c.advertiser_id = ?`
		args = append(args, *advertiserID)
	}
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(query+` ORDER BY c.id`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Campaign{}
	index := map[int64]int{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	regionRows, err := r.db.QueryContext(ctx, `SELECT campaign_id, region_name FROM campaign_regions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer regionRows.Close()
	for regionRows.Next() {
		var (
			campaignID int64
			region     string
		)
		if err := regionRows.Scan(&campaignID, &region); err != nil {
			return nil, err
		}
		if i, ok := index[campaignID]; ok {
			out[i].Regions = append(out[i].Regions, region)
		}
	}
	return out, regionRows.Err()
}

func (r *SQLRepository) GetCampaign(ctx context.Context, id int64) (models.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx, r.d.Rebind(campaignSelect+` WHERE c.id = ?`), id))
	if err != nil {
		return models.Campaign{}, err
	}
	rows, err := r.db.QueryContext(ctx, r.d.Rebind(`SELECT region_name FROM campaign_regions WHERE campaign_id = ? ORDER BY id`), id)
	if err != nil {
		return models.Campaign{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var region string
		if err := rows.Scan(&region); err != nil {
			return models.Campaign{}, err
		}
		c.Regions = append(c.Regions, region)
	}
	return c, rows.Err()
}

// CreateCampaign writes the campaign and its regions in one transaction.
func (r *SQLRepository) CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	applyCampaignDefaults(&c)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = timeutil.Now()
	}
	err := store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := r.insert(ctx, tx, `INSERT INTO campaigns (name, advertiser_id, status, ad_type, budget, spent, views, impressions,
			start_date, end_date, created_at) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			c.Name, c.AdvertiserID, c.Status, c.AdType, c.Budget, c.Spent, c.Views, c.Impressions,
			dateArg(c.StartDate), dateArg(c.EndDate), c.CreatedAt.UTC())
		if err != nil {
			return err
		}
		c.ID = id
		for _, region := range c.Regions {
			region = strings.TrimSpace(region)
			if region == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, r.d.Rebind(`INSERT INTO campaign_regions (campaign_id, region_name) VALUES (?, ?)`), id, region); err != nil {
				return err
			}
		}
		return nil
	})
	if store.IsForeignKeyViolation(err) {
		return models.Campaign{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Campaign{}, err
	}
	return r.GetCampaign(ctx, c.ID)
}

func (r *SQLRepository) UpdateCampaignStatus(ctx context.Context, id int64, status string) error {
	return r.exec(ctx, `UPDATE campaigns SET status = ? WHERE id = ?`, status, id)
}

// UpdateCampaignMetrics adds the deltas to the stored counters.
func (r *SQLRepository) UpdateCampaignMetrics(ctx context.Context, id int64, m models.CampaignMetrics) error {
	return r.exec(ctx, `UPDATE campaigns SET views = views + ?, impressions = impressions + ?, spent = spent + ? WHERE id = ?`,
		m.Views, m.Impressions, m.Spent, id)
}

func (r *SQLRepository) HighViewershipLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, location_name, lat, lon, views, importance FROM locations ORDER BY views DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Location{}
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Lat, &l.Lon, &l.Views, &l.Importance); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLRepository) CreateLocation(ctx context.Context, l models.Location) (models.Location, error) {
	err := store.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := r.insert(ctx, tx, `INSERT INTO locations (location_name, lat, lon, views, importance) VALUES (?,?,?,?,?)`,
			l.Name, l.Lat, l.Lon, l.Views, l.Importance)
		if err != nil {
			return err
		}
		l.ID = id
		return nil
	})
	if err != nil {
		return models.Location{}, err
	}
	return l, nil
}
