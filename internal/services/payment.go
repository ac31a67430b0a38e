package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/languageloom/languageloom-backend/internal/db"
	"github.com/languageloom/languageloom-backend/internal/logging"
	"github.com/languageloom/languageloom-backend/internal/models"
)

// IntentCreator is the external payment service.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// ExportSheet is the worksheet name of payment exports.
const ExportSheet = "Payments"

type PaymentService struct {
	collection db.Collection
	intents    IntentCreator
}

func NewPaymentService(store *db.Store, intents IntentCreator) *PaymentService {
	return &PaymentService{collection: store.Payments, intents: intents}
}

// RecordPayment appends a payment to the history. Payments are never updated.
func (s *PaymentService) RecordPayment(ctx context.Context, payment map[string]interface{}) (*db.InsertResult, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.InsertOne(ctx, bson.M(payment))
}

func (s *PaymentService) PaymentsByEmail(ctx context.Context, email string) ([]bson.M, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.Find(ctx, bson.M{"email": email})
}

// CreateIntent converts price to cents and asks the payment service for a client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price interface{}) (string, error) {
	amount, err := MinorUnits(price)
	if err != nil {
		return "", err
	}

	secret, err := s.intents.CreatePaymentIntent(ctx, amount, models.PaymentCurrency)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	logging.FromContext(ctx).Info("payment intent created", "amount", amount, "currency", models.PaymentCurrency)
	return secret, nil
}

// Price bounds, checked before any arithmetic.
const (
	maxPriceLength   = 32
	minPriceExponent = -20
	maxPriceExponent = 20
)

var errPriceTooLong = errors.New("price text too long")

func parsePrice(text string) (decimal.Decimal, error) {
	if len(text) > maxPriceLength {
		return decimal.Decimal{}, errPriceTooLong
	}
	return decimal.NewFromString(text)
}

// MinorUnits truncates price*100 to an integer using exact decimal arithmetic.
// price is a JSON number or numeric string in major units and must be at least one cent.
func MinorUnits(price interface{}) (int64, error) {
	if !models.Truthy(price) {
		return 0, fmt.Errorf("%w: price is required", ErrInvalidInput)
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch v := price.(type) {
	case string:
		d, err = parsePrice(strings.TrimSpace(v))
	case json.Number:
		d, err = parsePrice(v.String())
	case float64:
		d = decimal.NewFromFloat(v)
	case int64:
		d = decimal.NewFromInt(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	default:
		return 0, fmt.Errorf("%w: price must be a number", ErrInvalidInput)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: price %q is not a number", ErrInvalidInput, price)
	}
	if exp := d.Exponent(); exp < minPriceExponent || exp > maxPriceExponent {
		return 0, fmt.Errorf("%w: price is out of range", ErrInvalidInput)
	}

	amount := d.Mul(decimal.NewFromInt(100)).Truncate(0)
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: price must be at least 0.01", ErrInvalidInput)
	}
	if amount.GreaterThan(decimal.NewFromInt(1 << 53)) {
		return 0, fmt.Errorf("%w: price is out of range", ErrInvalidInput)
	}
	return amount.IntPart(), nil
}

// ExportPayments writes the payment history of email as an xlsx workbook. Columns are
// _id followed by every other field name in sorted order.
func (s *PaymentService) ExportPayments(ctx context.Context, email string, w io.Writer) error {
	payments, err := s.PaymentsByEmail(ctx, email)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	columns := exportColumns(payments)
	for i, name := range columns {
		if err := setCell(f, i+1, 1, name); err != nil {
			return err
		}
	}
	for r, payment := range payments {
		for c, name := range columns {
			value, ok := payment[name]
			if !ok {
				continue
			}
			if err := setCell(f, c+1, r+2, cellValue(value)); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func exportColumns(docs []bson.M) []string {
	seen := map[string]struct{}{}
	for _, doc := range docs {
		for k := range doc {
			if k != "_id" {
				seen[k] = struct{}{}
			}
		}
	}
	columns := make([]string, 0, len(seen)+1)
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return append([]string{"_id"}, columns...)
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(ExportSheet, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}

func cellValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case string, bool, int, int32, int64, float64:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
