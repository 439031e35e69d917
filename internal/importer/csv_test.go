package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgreens-ops/internal/model"
	"microgreens-ops/internal/service"
)

// fakeOrderService records the inputs the importer submits.
type fakeOrderService struct {
	created []service.OrderInput
	fail    error
}

func (f *fakeOrderService) CreateOrder(_ context.Context, input service.OrderInput) (*model.Order, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.created = append(f.created, input)
	return &model.Order{}, nil
}

func (f *fakeOrderService) GetOrder(context.Context, string) (*model.Order, error) {
	return nil, model.ErrNotFound
}

func (f *fakeOrderService) UpdateOrder(context.Context, string, service.OrderInput, service.UpdateScope) (*model.Order, error) {
	return nil, model.ErrNotFound
}

func (f *fakeOrderService) DeleteOrder(context.Context, string, service.DeleteScope) error {
	return model.ErrNotFound
}

const sampleCSV = `customer,delivery_date,item,amount,halbe_channel
Weltcafé,15.04.2024,Brokkoli,2.5,false
Weltcafé,15.04.2024,Senf,1,false
Goldener Adler,15.04.2024,Brokkoli,3,true
Weltcafé,22.04.2024,Brokkoli,2.5,false
`

func TestImport_GroupsRowsIntoOrders(t *testing.T) {
	fake := &fakeOrderService{}
	created, err := New(fake).Import(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	require.Len(t, fake.created, 3)

	first := fake.created[0]
	assert.Equal(t, "Weltcafé", first.CustomerName)
	assert.Equal(t, time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC), first.DeliveryDate)
	assert.Equal(t, model.SubscriptionNone, first.SubscriptionType)
	require.Len(t, first.Lines, 2)
	assert.Equal(t, "Brokkoli", first.Lines[0].ItemName)
	assert.Equal(t, "2.5", first.Lines[0].Amount.String())
	assert.Equal(t, "Senf", first.Lines[1].ItemName)

	assert.True(t, fake.created[1].HalbeChannel)
	assert.Len(t, fake.created[2].Lines, 1)
}

func TestImport_RejectsBadInput(t *testing.T) {
	fake := &fakeOrderService{}
	im := New(fake)

	_, err := im.Import(context.Background(), strings.NewReader("customer,delivery_date\n"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = im.Import(context.Background(), strings.NewReader("wrong,header,entirely,here,now\na,b,c,d,e\n"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	bad := "customer,delivery_date,item,amount,halbe_channel\nWeltcafé,2024-04-15,Brokkoli,1,false\n"
	_, err = im.Import(context.Background(), strings.NewReader(bad))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	bad = "customer,delivery_date,item,amount,halbe_channel\nWeltcafé,15.04.2024,Brokkoli,abc,false\n"
	_, err = im.Import(context.Background(), strings.NewReader(bad))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	assert.Empty(t, fake.created)
}

func TestImport_ReportsOrdersCreatedBeforeFailure(t *testing.T) {
	fake := &fakeOrderService{fail: model.ErrNotFound}
	created, err := New(fake).Import(context.Background(), strings.NewReader(sampleCSV))
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Zero(t, created)
}
