package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() CreateOrderInput {
	return CreateOrderInput{
		CustomerName: "Meera",
		PhoneNumber:  "9876543210",
		OrderType:    "DINE_IN",
		Items:        []CreateOrderItem{{ProductID: 1, Quantity: 2}},
	}
}

func TestValidateCreateOrder_MissingFieldsAggregated(t *testing.T) {
	in := CreateOrderInput{CustomerName: "  ", OrderType: "TAKEAWAY"}
	err := validateCreateOrder(&in)
	assert.EqualError(t, err, "Missing required fields: customer_name, phone_number, order_type, items.")
}

func TestValidateCreateOrder_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(in *CreateOrderInput)
		msg    string
	}{
		{"phone letters", func(in *CreateOrderInput) { in.PhoneNumber = "98765abcde" }, "Phone number must be exactly 10 digits."},
		{"phone short", func(in *CreateOrderInput) { in.PhoneNumber = "12345" }, "Phone number must be exactly 10 digits."},
		{"delivery no address", func(in *CreateOrderInput) { in.OrderType = "DELIVERY" }, "Delivery orders require address fields: address_line1, city, pincode."},
		{"delivery bad pincode", func(in *CreateOrderInput) {
			in.OrderType = "DELIVERY"
			in.AddressLine1, in.City, in.Pincode = "12 MG Road", "Surat", "3950"
		}, "Pincode must be exactly 6 digits."},
		{"item without product", func(in *CreateOrderInput) { in.Items[0].ProductID = 0 }, "Each item must have a valid product_id."},
		{"item zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }, "Each item must have a positive quantity."},
		{"item quantity above int4", func(in *CreateOrderInput) { in.Items[0].Quantity = math.MaxInt32 + 1 }, "Each item must have a positive quantity."},
		{"item quantity near int max", func(in *CreateOrderInput) { in.Items[0].Quantity = math.MaxInt64/2 + 1 }, "Each item must have a positive quantity."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validOrder()
			tc.mutate(&in)
			assert.EqualError(t, validateCreateOrder(&in), tc.msg)
		})
	}
}

func TestValidateCreateOrder_DeliveryOK(t *testing.T) {
	in := validOrder()
	in.OrderType = "DELIVERY"
	in.AddressLine1, in.City, in.Pincode = " 12 MG Road ", "Surat", "395007"
	require.NoError(t, validateCreateOrder(&in))
	assert.Equal(t, "12 MG Road", in.AddressLine1)
}

func TestMergeLines(t *testing.T) {
	lines, err := mergeLines([]CreateOrderItem{
		{ProductID: 5, Quantity: 1},
		{ProductID: 2, Quantity: 3},
		{ProductID: 5, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []orderLine{{productID: 5, quantity: 5}, {productID: 2, quantity: 3}}, lines)
}

func TestMergeLines_QuantityOverflow(t *testing.T) {
	items := []CreateOrderItem{
		{ProductID: 1, Quantity: math.MaxInt32},
		{ProductID: 1, Quantity: 1},
	}
	_, err := mergeLines(items)
	assert.EqualError(t, err, "Each item must have a positive quantity.")

	lines, err := mergeLines([]CreateOrderItem{
		{ProductID: 1, Quantity: math.MaxInt32 - 1},
		{ProductID: 1, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, lines[0].quantity)
}

func TestAddLineTotal(t *testing.T) {
	total, ok := addLineTotal(0, 2999, 2)
	require.True(t, ok)
	total, ok = addLineTotal(total, 299, 3)
	require.True(t, ok)
	assert.Equal(t, int64(6895), total)

	_, ok = addLineTotal(0, math.MaxInt64/2, 3)
	assert.False(t, ok)

	_, ok = addLineTotal(math.MaxInt64-10, 1, 11)
	assert.False(t, ok)

	total, ok = addLineTotal(math.MaxInt64-10, 1, 10)
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), total)
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &InsufficientStockError{Shortages: []StockShortage{
		{Name: "Kaju Katli", Available: 1, Requested: 2},
		{Name: "Jalebi", Available: 0, Requested: 3},
	}}
	assert.Equal(t, "Insufficient stock for: Kaju Katli (available: 1, requested: 2), Jalebi (available: 0, requested: 3).", err.Error())

	missing := &MissingProductsError{IDs: []int{1, 2}}
	assert.Equal(t, "Product not found with IDs: 1, 2.", missing.Error())
}
