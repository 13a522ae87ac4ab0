package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/domain"
)

// MockQuerier simula o pool de conexões PostgreSQL
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, sql, args)
	return mockArgs.Get(0).(pgx.Row)
}

func (m *MockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, sql, args)
	rows, _ := mockArgs.Get(0).(pgx.Rows)
	return rows, mockArgs.Error(1)
}

// MockRow simula uma linha de resultado
type MockRow struct {
	scanFunc func(dest ...any) error
}

func (m *MockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

// MockRows simula um cursor de resultados
type MockRows struct {
	scans  []func(dest ...any) error
	pos    int
	err    error
	closed bool
}

func (m *MockRows) Close()                                       { m.closed = true }
func (m *MockRows) Err() error                                   { return m.err }
func (m *MockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *MockRows) Values() ([]any, error)                       { return nil, nil }
func (m *MockRows) RawValues() [][]byte                          { return nil }
func (m *MockRows) Conn() *pgx.Conn                              { return nil }

func (m *MockRows) Next() bool {
	if m.pos >= len(m.scans) {
		return false
	}
	m.pos++
	return true
}

func (m *MockRows) Scan(dest ...any) error {
	return m.scans[m.pos-1](dest...)
}

func errRow(err error) *MockRow {
	return &MockRow{scanFunc: func(dest ...any) error { return err }}
}

func strPtr(s string) *string { return &s }

func nullDecimal(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

// itemScan preenche as colunas de um item de carrinho com produto
func itemScan(itemID, quantity, productID int64, price string) func(dest ...any) error {
	return func(dest ...any) error {
		q := quantity
		pid := productID
		fragile := true
		*dest[0].(*int64) = itemID
		*dest[1].(**int64) = &q
		*dest[2].(**int64) = &pid
		*dest[3].(**string) = strPtr("Produto")
		*dest[4].(**string) = nil
		*dest[5].(*decimal.NullDecimal) = nullDecimal(price)
		*dest[6].(*decimal.NullDecimal) = nullDecimal("1.5")
		*dest[7].(*decimal.NullDecimal) = nullDecimal("10")
		*dest[8].(*decimal.NullDecimal) = decimal.NullDecimal{}
		*dest[9].(*decimal.NullDecimal) = nullDecimal("30")
		*dest[10].(**bool) = &fragile
		*dest[11].(**string) = strPtr("BOOK")
		return nil
	}
}

func TestNewCustomerRepository(t *testing.T) {
	// Act
	repo := NewCustomerRepository(new(MockQuerier))

	// Assert
	assert.NotNil(t, repo)
	assert.IsType(t, &CustomerRepository{}, repo)
}

func TestCustomerRepository_FindByID(t *testing.T) {
	// Arrange
	db := new(MockQuerier)
	row := &MockRow{scanFunc: func(dest ...any) error {
		*dest[0].(*int64) = 1
		*dest[1].(*string) = "Cliente"
		*dest[2].(**string) = strPtr("NORTH")
		*dest[3].(**string) = nil
		return nil
	}}
	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(1)}).Return(row)

	// Act
	customer, err := NewCustomerRepository(db).FindByID(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, &domain.Customer{ID: 1, Name: "Cliente", Region: domain.RegionNorth}, customer)
	db.AssertExpectations(t)
}

func TestCustomerRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	db := new(MockQuerier)
	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(2)}).Return(errRow(pgx.ErrNoRows))

	// Act
	customer, err := NewCustomerRepository(db).FindByID(context.Background(), 2)

	// Assert
	assert.Nil(t, customer)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCustomerRepository_FindByID_DatabaseError(t *testing.T) {
	// Arrange
	dbErr := errors.New("connection refused")
	db := new(MockQuerier)
	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(2)}).Return(errRow(dbErr))

	// Act
	_, err := NewCustomerRepository(db).FindByID(context.Background(), 2)

	// Assert
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrCustomerNotFound)
}

func TestCartRepository_FindByIDForCustomer(t *testing.T) {
	// Arrange
	db := new(MockQuerier)
	customer := &domain.Customer{ID: 1}
	cartRow := &MockRow{scanFunc: func(dest ...any) error {
		*dest[0].(*int64) = 10
		*dest[1].(*int64) = 1
		return nil
	}}
	rows := &MockRows{scans: []func(dest ...any) error{
		itemScan(100, 2, 7, "19.90"),
		func(dest ...any) error {
			// item órfão: produto removido do catálogo
			*dest[0].(*int64) = 101
			*dest[1].(**int64) = nil
			*dest[2].(**int64) = nil
			return nil
		},
	}}
	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(10), int64(1)}).Return(cartRow)
	db.On("Query", mock.Anything, mock.Anything, []any{int64(10)}).Return(rows, nil)

	// Act
	cart, err := NewCartRepository(db).FindByIDForCustomer(context.Background(), 10, customer)

	// Assert
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.True(t, rows.closed)

	first := cart.Items[0]
	assert.Equal(t, int64(100), first.ID)
	assert.Equal(t, int64(2), *first.Quantity)
	require.NotNil(t, first.Product)
	assert.Equal(t, int64(7), first.Product.ID)
	assert.Equal(t, "", first.Product.Description)
	assert.Equal(t, "19.90", first.Product.Price.StringFixed(2))
	assert.Nil(t, first.Product.Width)
	assert.True(t, *first.Product.Fragile)
	assert.Equal(t, domain.ProductTypeBook, first.Product.Type)

	second := cart.Items[1]
	assert.Nil(t, second.Product)
	assert.Nil(t, second.Quantity)
	db.AssertExpectations(t)
}

func TestCartRepository_FindByIDForCustomer_NotFound(t *testing.T) {
	// Arrange
	db := new(MockQuerier)
	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(10), int64(2)}).Return(errRow(pgx.ErrNoRows))

	// Act
	cart, err := NewCartRepository(db).FindByIDForCustomer(context.Background(), 10, &domain.Customer{ID: 2})

	// Assert
	assert.Nil(t, cart)
	assert.ErrorIs(t, err, ErrCartNotFound)
	db.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartRepository_FindByIDForCustomer_NilCustomer(t *testing.T) {
	db := new(MockQuerier)

	_, err := NewCartRepository(db).FindByIDForCustomer(context.Background(), 10, nil)

	assert.ErrorIs(t, err, ErrCartNotFound)
	db.AssertNotCalled(t, "QueryRow", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartRepository_FindByIDForCustomer_ItemsError(t *testing.T) {
	// Arrange
	db := new(MockQuerier)
	cartRow := &MockRow{scanFunc: func(dest ...any) error { return nil }}
	rows := &MockRows{err: errors.New("conn closed")}
	db.On("QueryRow", mock.Anything, mock.Anything, []any{int64(10), int64(1)}).Return(cartRow)
	db.On("Query", mock.Anything, mock.Anything, []any{int64(0)}).Return(rows, nil)

	// Act
	_, err := NewCartRepository(db).FindByIDForCustomer(context.Background(), 10, &domain.Customer{ID: 1})

	// Assert
	assert.ErrorContains(t, err, "failed to read cart items")
}
