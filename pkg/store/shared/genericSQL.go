package shared

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	sync "github.com/bacalhau-project/golang-mutex-tracer"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/store"
)

//go:embed migrations/*.sql
var fs embed.FS

// SQLClient is so we can pass *sql.DB and *sql.Tx to the same functions
type SQLClient interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// MigrationDriver wraps an open database for golang-migrate.
type MigrationDriver func(db *sql.DB) (database.Driver, error)

// GenericSQLDatastore is a SettlementStore over any database/sql driver accepting $N placeholders.
type GenericSQLDatastore struct {
	mtx             sync.RWMutex
	name            string
	db              *sql.DB
	migrationDriver MigrationDriver
	now             func() time.Time
}

func NewGenericSQLDatastore(
	db *sql.DB,
	name string,
	migrationDriver MigrationDriver,
) (*GenericSQLDatastore, error) {
	datastore := &GenericSQLDatastore{
		name:            name,
		db:              db,
		migrationDriver: migrationDriver,
		now:             time.Now,
	}
	datastore.mtx.EnableTracerWithOpts(sync.Opts{
		Threshold: 10 * time.Millisecond,
		Id:        fmt.Sprintf("GenericSQLDatastore[%s].mtx", name),
	})
	return datastore, nil
}

func (d *GenericSQLDatastore) GetDB() *sql.DB {
	return d.db
}

const settlementColumns = `id, call_id, outcome, final_price, price_usd, price_fresh, outcome_timestamp,
	signature, deploy_hash, status, error_message, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row scanner) (store.Settlement, error) {
	var s store.Settlement
	var callID int64
	var deployHash sql.NullString
	var status string
	var createdAt, updatedAt int64
	err := row.Scan(
		&s.ID, &callID, &s.Outcome, &s.FinalPrice, &s.PriceUSD, &s.PriceFresh, &s.Timestamp,
		&s.Signature, &deployHash, &status, &s.ErrorMessage, &createdAt, &updatedAt,
	)
	if err != nil {
		return store.Settlement{}, err
	}
	s.CallID = uint64(callID)
	s.DeployHash = deployHash.String
	s.Status = settlement.DeployStatus(status)
	s.CreatedAt = time.UnixMicro(createdAt).UTC()
	s.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return s, nil
}

func getSettlementWhere(db SQLClient, ctx context.Context, key, where string, args ...any) (store.Settlement, error) {
	row := db.QueryRowContext(ctx,
		`select `+settlementColumns+` from settlement where `+where+` order by created_at desc, id desc limit 1`,
		args...)
	s, err := scanSettlement(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return store.Settlement{}, store.NewSettlementNotFound(key)
		}
		return store.Settlement{}, err
	}
	return s, nil
}

func (d *GenericSQLDatastore) GetSettlement(ctx context.Context, id string) (store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return getSettlementWhere(d.db, ctx, id, "id = $1", strings.ToLower(id))
}

func (d *GenericSQLDatastore) GetSettlementByCall(ctx context.Context, callID uint64) (store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return getSettlementWhere(d.db, ctx, strconv.FormatUint(callID, 10), "call_id = $1", int64(callID))
}

func (d *GenericSQLDatastore) GetSettlementByDeploy(ctx context.Context, deployHash string) (store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return getSettlementWhere(d.db, ctx, deployHash, "deploy_hash = $1", strings.ToLower(deployHash))
}

func getSettlementsSQL(query store.SettlementQuery) (string, []interface{}) {
	var args []interface{}
	clauses := []string{}

	queryCounter := 0
	getQueryCounter := func() string {
		queryCounter++
		return fmt.Sprintf("$%d", queryCounter)
	}

	if query.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = %s", getQueryCounter()))
		args = append(args, string(query.Status))
	}

	where := ""
	if len(clauses) > 0 {
		where = "where " + strings.Join(clauses, " and ")
	}

	order := "asc"
	if query.SortReverse {
		order = "desc"
	}
	after := fmt.Sprintf(" order by created_at %s, id %s", order, order)

	limit := query.Limit
	if limit <= 0 && query.Offset > 0 {
		// sqlite needs a limit before an offset
		limit = math.MaxInt32
	}
	if limit > 0 {
		after += fmt.Sprintf(" limit %s", getQueryCounter())
		args = append(args, limit)
	}
	if query.Offset > 0 {
		after += fmt.Sprintf(" offset %s", getQueryCounter())
		args = append(args, query.Offset)
	}

	return fmt.Sprintf("select %s from settlement %s%s", settlementColumns, where, after), args
}

func (d *GenericSQLDatastore) ListSettlements(ctx context.Context, query store.SettlementQuery) ([]store.Settlement, error) {
	d.mtx.RLock()
	defer d.mtx.RUnlock()

	sqlStatement, args := getSettlementsSQL(query)
	rows, err := d.db.QueryContext(ctx, sqlStatement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []store.Settlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (d *GenericSQLDatastore) AddSettlement(ctx context.Context, s store.Settlement) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = settlement.StatusPending
	}
	deployHash := sql.NullString{String: strings.ToLower(s.DeployHash), Valid: s.DeployHash != ""}
	now := d.now().UTC().UnixMicro()

	sqlStatement := `
insert into settlement (` + settlementColumns + `)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := d.db.ExecContext(ctx, sqlStatement,
		strings.ToLower(s.ID),
		int64(s.CallID),
		s.Outcome,
		s.FinalPrice,
		s.PriceUSD,
		s.PriceFresh,
		s.Timestamp,
		s.Signature,
		deployHash,
		string(s.Status),
		s.ErrorMessage,
		now,
		now,
	)
	if err != nil {
		return errors.Wrapf(err, "adding settlement for call %d", s.CallID)
	}
	return nil
}

func (d *GenericSQLDatastore) UpdateSettlementStatus(
	ctx context.Context, deployHash string, status settlement.DeployStatus, errorMessage string,
) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	sqlStatement := `update settlement set status = $1, error_message = $2, updated_at = $3 where deploy_hash = $4`
	res, err := d.db.ExecContext(ctx, sqlStatement,
		string(status), errorMessage, d.now().UTC().UnixMicro(), strings.ToLower(deployHash))
	if err != nil {
		return errors.Wrapf(err, "updating settlement for deploy %s", deployHash)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.NewSettlementNotFound(deployHash)
	}
	return nil
}

func (d *GenericSQLDatastore) Close(ctx context.Context) error {
	return d.db.Close()
}

func (d *GenericSQLDatastore) GetMigrations() (*migrate.Migrate, error) {
	files, err := iofs.New(fs, "migrations")
	if err != nil {
		return nil, err
	}
	driver, err := d.migrationDriver(d.db)
	if err != nil {
		return nil, oracleerrors.Wrap(oracleerrors.Unknown, err, "preparing %s migrations", d.name)
	}
	migrations, err := migrate.NewWithInstance("iofs", files, d.name, driver)
	if err != nil {
		return nil, err
	}
	return migrations, nil
}

func (d *GenericSQLDatastore) MigrateUp() error {
	migrations, err := d.GetMigrations()
	if err != nil {
		return err
	}
	err = migrations.Up()
	if err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func (d *GenericSQLDatastore) MigrateDown() error {
	migrations, err := d.GetMigrations()
	if err != nil {
		return err
	}
	err = migrations.Down()
	if err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// Static check to ensure that GenericSQLDatastore implements SettlementStore:
var _ store.SettlementStore = (*GenericSQLDatastore)(nil)
