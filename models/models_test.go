package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestFlexNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"number", `25`, 25, false},
		{"decimal", `199.5`, 199.5, false},
		{"numeric string", `"31"`, 31, false},
		{"padded string", `" 42.25 "`, 42.25, false},
		{"empty string", `""`, 0, true},
		{"word", `"many"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n FlexNumber
			err := json.Unmarshal([]byte(tt.in), &n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && n.Float() != tt.want {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, n.Float(), tt.want)
			}
		})
	}
}

func TestRegisterRequest_MissingNumberIsNil(t *testing.T) {
	var req RegisterRequest
	if err := json.Unmarshal([]byte(`{"name":"a","age":"30"}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.Age == nil || req.Age.Float() != 30 {
		t.Errorf("Age = %v, want 30", req.Age)
	}
	if req.Budget != nil {
		t.Errorf("Budget should stay nil when absent")
	}
}

func TestItemsCodec(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", ProductName: "Shirt", Quantity: 2, TotalPrice: 40},
		{ProductID: "p2", ProductName: "Hat", Quantity: 1, TotalPrice: 15.5},
	}
	raw, err := EncodeItems(items)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeItems(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].ProductID != "p2" || got[0].Quantity != 2 {
		t.Errorf("DecodeItems() = %+v", got)
	}

	raw, err = EncodeItems(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "[]" {
		t.Errorf("EncodeItems(nil) = %s, want []", raw)
	}

	if _, err := DecodeItems([]byte(`{"not":"a list"}`)); err == nil {
		t.Error("DecodeItems should reject a non-array payload")
	}
}

func TestTransaction_ProductIDs(t *testing.T) {
	tx := Transaction{Items: []LineItem{{ProductID: "P1"}, {ProductID: "P1"}, {ProductID: "P2"}}}
	ids := tx.ProductIDs()
	if len(ids) != 3 || ids[0] != "P1" || ids[2] != "P2" {
		t.Errorf("ProductIDs() = %v", ids)
	}
}
