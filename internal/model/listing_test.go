package model

import "testing"

func TestTransactionKindIsValid(t *testing.T) {
	t.Parallel()

	for _, k := range []TransactionKind{TransactionSell, TransactionExchange, TransactionDonate} {
		if !k.IsValid() {
			t.Errorf("%s should be valid", k)
		}
	}
	for _, k := range []TransactionKind{"", "rent", "SELL", "give"} {
		if k.IsValid() {
			t.Errorf("%q should be invalid", k)
		}
	}
}

func TestTransactionKindHasPrice(t *testing.T) {
	t.Parallel()

	if !TransactionSell.HasPrice() {
		t.Error("sell listings carry a price")
	}
	if TransactionExchange.HasPrice() {
		t.Error("exchange listings must not carry a price")
	}
	if TransactionDonate.HasPrice() {
		t.Error("donate listings must not carry a price")
	}
}

func TestListingHasImage(t *testing.T) {
	t.Parallel()

	l := &Listing{}
	if l.HasImage() {
		t.Error("nil ImageURL reported as image")
	}

	empty := ""
	l.ImageURL = &empty
	if l.HasImage() {
		t.Error("empty ImageURL reported as image")
	}

	url := "http://localhost:8080/media/item-images/01HV.png"
	l.ImageURL = &url
	if !l.HasImage() {
		t.Error("set ImageURL not reported as image")
	}
}
