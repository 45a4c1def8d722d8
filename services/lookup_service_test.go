package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seedMasterSheets(mock *MockRowStore) {
	mock.Seed("customer_master", [][]string{
		{"No.", "Name", "Address", "Address 2"},
		{"C-1001", "Acme Industrial Co., Ltd.", "1 Factory Rd", "Rayong 21000"},
		{"C-1002", "Bangkok Valve Supply", "99 Canal Rd", ""},
	})
	mock.Seed("contacts", [][]string{
		{"Company No.", "Name", "Phone No.", "Email"},
		{"C-1001", "Khun Somchai", "081-234-5678", "somchai@acme.example"},
		{"C-1001", "Khun Nok", "081-999-0000", "nok@acme.example"},
		{"C-1002", "Khun Lek", "082-111-2222", "lek@bvs.example"},
	})
	mock.Seed("sales", [][]string{
		{"Code", "Full Name", "Phone No."},
		{"S01", "Somsak Jaidee", "089-111-2222"},
		{"P02", "Malee Srisuk", "089-333-4444"},
	})
}

func newLookupService(mock *MockRowStore) *LookupService {
	return &LookupService{store: mock, cfg: newTestConfig()}
}

func TestCompanyLookup(t *testing.T) {
	mock := NewMockRowStore()
	seedMasterSheets(mock)
	svc := newLookupService(mock)

	info, err := svc.CompanyLookup("acme")
	assert.NoError(t, err)
	assert.Equal(t, "Acme Industrial Co., Ltd.", info.Company)
	assert.Equal(t, "C-1001", info.CompanyNo)
	assert.Equal(t, "1 Factory Rd Rayong 21000", info.Address)
	assert.Len(t, info.Contacts, 2)
	assert.Equal(t, "Khun Somchai", info.Contacts[0].Name)
	assert.Equal(t, "081-234-5678", info.Contacts[0].Phone)
	assert.Equal(t, "somchai@acme.example", info.Contacts[0].Email)
}

func TestCompanyLookupSecondAddressLineOptional(t *testing.T) {
	mock := NewMockRowStore()
	seedMasterSheets(mock)
	svc := newLookupService(mock)

	info, err := svc.CompanyLookup("bangkok valve")
	assert.NoError(t, err)
	assert.Equal(t, "99 Canal Rd", info.Address)
	assert.Len(t, info.Contacts, 1)
}

func TestCompanyLookupErrors(t *testing.T) {
	mock := NewMockRowStore()
	seedMasterSheets(mock)
	svc := newLookupService(mock)

	_, err := svc.CompanyLookup("no such company")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CompanyLookup("   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSalesLookupByCode(t *testing.T) {
	mock := NewMockRowStore()
	seedMasterSheets(mock)
	svc := newLookupService(mock)

	name, mobile, err := svc.SalesLookupByCode("S01")
	assert.NoError(t, err)
	assert.Equal(t, "Somsak Jaidee", name)
	assert.Equal(t, "089-111-2222", mobile)

	_, _, err = svc.SalesLookupByCode("S99")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = svc.SalesLookupByCode("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContactLookupByCode(t *testing.T) {
	mock := NewMockRowStore()
	seedMasterSheets(mock)
	svc := newLookupService(mock)

	name, tel, err := svc.ContactLookupByCode("P02")
	assert.NoError(t, err)
	assert.Equal(t, "Malee Srisuk", name)
	assert.Equal(t, "089-333-4444", tel)
}
