package store

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/tradewind-lab/tradewind/internal/logger"
	"github.com/tradewind-lab/tradewind/internal/types"
	"github.com/tradewind-lab/tradewind/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBStore keeps trades in a DuckDB database, either on disk or in memory
// when path is ":memory:".
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens the database at path and creates the schema if needed.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to open trade database", err)
	}

	s := &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	log.Info("Opened trade store", zap.String("path", path))

	return s, nil
}

func (s *DuckDBStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			trade_id TEXT PRIMARY KEY,
			symbol TEXT,
			action TEXT,
			entry_price DOUBLE,
			quantity DOUBLE,
			entry_time TIMESTAMP,
			strategy_id TEXT,
			stop_loss DOUBLE,
			target DOUBLE,
			exit_price DOUBLE,
			exit_time TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInitFailed, "failed to create trades table", err)
	}

	return nil
}

// Append implements TradeStore.
func (s *DuckDBStore) Append(trade types.Trade) error {
	var exitPrice interface{}
	var exitTime interface{}

	if trade.Exit.IsSome() {
		exit := trade.Exit.Unwrap()
		exitPrice = exit.Price
		exitTime = exit.Time
	}

	query := s.sq.
		Insert("trades").
		Columns(
			"trade_id", "symbol", "action", "entry_price", "quantity", "entry_time",
			"strategy_id", "stop_loss", "target", "exit_price", "exit_time",
		).
		Values(
			trade.ID, trade.Symbol, string(trade.Action), trade.EntryPrice, trade.Quantity,
			trade.EntryTime, trade.StrategyID, trade.StopLoss, trade.Target, exitPrice, exitTime,
		).
		RunWith(s.db)

	if _, err := query.Exec(); err != nil {
		return errors.Wrapf(errors.ErrCodeStoreQueryFailed, err, "failed to persist trade %s", trade.ID)
	}

	return nil
}

// UpdateExit implements TradeStore.
func (s *DuckDBStore) UpdateExit(id string, exit types.TradeExit) error {
	query := s.sq.
		Update("trades").
		Set("exit_price", exit.Price).
		Set("exit_time", exit.Time).
		Where(squirrel.Eq{"trade_id": id}).
		RunWith(s.db)

	result, err := query.Exec()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStoreQueryFailed, err, "failed to record exit for trade %s", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(errors.ErrCodeStoreQueryFailed, err, "failed to read update result for trade %s", id)
	}

	if affected == 0 {
		return errors.Newf(errors.ErrCodeTradeNotFound, "trade with id %s not persisted", id)
	}

	return nil
}

// LoadAll implements TradeStore.
func (s *DuckDBStore) LoadAll() ([]types.Trade, error) {
	query := s.sq.
		Select(
			"trade_id", "symbol", "action", "entry_price", "quantity", "entry_time",
			"strategy_id", "stop_loss", "target", "exit_price", "exit_time",
		).
		From("trades").
		OrderBy("entry_time ASC", "trade_id ASC").
		RunWith(s.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to load trades", err)
	}
	defer rows.Close()

	trades := make([]types.Trade, 0)

	for rows.Next() {
		var trade types.Trade
		var action string
		var exitPrice sql.NullFloat64
		var exitTime sql.NullTime

		if err := rows.Scan(
			&trade.ID, &trade.Symbol, &action, &trade.EntryPrice, &trade.Quantity,
			&trade.EntryTime, &trade.StrategyID, &trade.StopLoss, &trade.Target,
			&exitPrice, &exitTime,
		); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to scan trade row", err)
		}

		trade.Action = types.Action(action)

		if exitPrice.Valid && exitTime.Valid {
			trade.Exit = optional.Some(types.TradeExit{
				Price: exitPrice.Float64,
				Time:  exitTime.Time,
			})
		}

		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQueryFailed, "failed to iterate trade rows", err)
	}

	return trades, nil
}

// Close implements TradeStore.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}

var _ TradeStore = (*DuckDBStore)(nil)
