package utils

import "testing"

func TestCartFingerprint(t *testing.T) {
	cart := []FingerprintItem{
		{ItemID: 7, Quantity: 1},
		{ItemID: 3, Quantity: 2},
		{ItemID: 12, Quantity: 1},
	}
	want := "3:2|7:1|12:1"
	if got := CartFingerprint(cart); got != want {
		t.Errorf("CartFingerprint = %q, want %q", got, want)
	}

	// Submission order must not matter.
	shuffled := []FingerprintItem{cart[2], cart[0], cart[1]}
	if got := CartFingerprint(shuffled); got != want {
		t.Errorf("reordered cart fingerprint = %q, want %q", got, want)
	}

	// Input slice is left untouched.
	if cart[0].ItemID != 7 {
		t.Error("CartFingerprint mutated its input")
	}
}

func TestCartFingerprintDistinguishesCarts(t *testing.T) {
	base := []FingerprintItem{{ItemID: 1, Quantity: 2}}
	differentQty := []FingerprintItem{{ItemID: 1, Quantity: 3}}
	differentItem := []FingerprintItem{{ItemID: 2, Quantity: 2}}

	fp := CartFingerprint(base)
	if fp == CartFingerprint(differentQty) {
		t.Error("quantity change produced the same fingerprint")
	}
	if fp == CartFingerprint(differentItem) {
		t.Error("item change produced the same fingerprint")
	}
	if CartFingerprint(nil) != "" {
		t.Errorf("empty cart fingerprint = %q, want empty", CartFingerprint(nil))
	}
}
