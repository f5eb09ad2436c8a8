package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/models/store"
	"github.com/de-tools/txn-atlas/pkg/services/generate"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/transactions"
)

// TransactionSource abstracts where the raw transaction table comes from.
type TransactionSource interface {
	Load(ctx context.Context) ([]domain.Transaction, error)
	Name() string
}

// storeSource reads the transactions table and enforces the schema
// contract on every row before it enters the pipeline.
type storeSource struct {
	store    transactions.Store
	validate *validator.Validate
}

func NewStoreSource(store transactions.Store) TransactionSource {
	return &storeSource{
		store:    store,
		validate: validator.New(),
	}
}

func (s *storeSource) Name() string {
	return "transactions table"
}

func (s *storeSource) Load(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.InsufficientDataError{Subject: "transactions", Reason: "table is empty"}
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		if err := s.validateRow(row); err != nil {
			return nil, err
		}
		txns = append(txns, adapters.MapTransactionStoreToDomain(row))
	}

	zerolog.Ctx(ctx).Info().
		Int("transactions", len(txns)).
		Str("source", s.Name()).
		Msg("loaded transaction table")
	return txns, nil
}

func (s *storeSource) validateRow(row store.TransactionRow) error {
	if err := s.validate.Struct(row); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &domain.SchemaError{
				Table:  "transactions",
				Field:  verrs[0].Field(),
				Reason: fmt.Sprintf("failed %q check on value %v", verrs[0].Tag(), verrs[0].Value()),
			}
		}
		return fmt.Errorf("validate transaction row: %w", err)
	}

	info, ok := domain.Countries[row.Country]
	if !ok {
		return &domain.SchemaError{
			Table:  "transactions",
			Field:  "Country",
			Reason: fmt.Sprintf("unknown country %q", row.Country),
		}
	}
	if info.Currency != row.Currency {
		return &domain.SchemaError{
			Table:  "transactions",
			Field:  "Currency",
			Reason: fmt.Sprintf("currency %q does not match country %q", row.Currency, row.Country),
		}
	}
	return nil
}

// syntheticSource feeds the pipeline straight from the generator,
// bypassing the database.
type syntheticSource struct {
	generator *generate.Generator
}

func NewSyntheticSource(generator *generate.Generator) TransactionSource {
	return &syntheticSource{generator: generator}
}

func (s *syntheticSource) Name() string {
	return "synthetic"
}

func (s *syntheticSource) Load(ctx context.Context) ([]domain.Transaction, error) {
	return s.generator.Generate(ctx)
}
