package order

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusShipped, false},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(StatusDelivered) {
		t.Fatalf("expected delivered to be terminal")
	}
	if !Terminal(StatusCancelled) {
		t.Fatalf("expected cancelled to be terminal")
	}
	if Terminal(StatusPending) {
		t.Fatalf("expected pending to have outgoing transitions")
	}
}

func validForm() CheckoutForm {
	return CheckoutForm{
		CustomerName:    "Asha Verma",
		CustomerEmail:   "asha@example.com",
		CustomerPhone:   "555-0101",
		ShippingAddress: "12 Orchard Lane",
		PaymentMethod:   PaymentCard,
	}
}

func TestValidateCheckout(t *testing.T) {
	items := []Line{{ProductID: 1, Quantity: 2, Price: 2.99}}

	if err := ValidateCheckout(validForm(), items); err != nil {
		t.Fatalf("expected valid form to pass, got %v", err)
	}

	form := validForm()
	form.CustomerEmail = ""
	err := ValidateCheckout(form, items)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "customer_email" {
		t.Fatalf("expected customer_email flagged, got %s", verr.Field)
	}

	form = validForm()
	form.CustomerEmail = "not-an-email"
	if err := ValidateCheckout(form, items); err == nil {
		t.Fatalf("expected invalid email to fail")
	}

	form = validForm()
	form.PaymentMethod = "crypto"
	if err := ValidateCheckout(form, items); err == nil {
		t.Fatalf("expected unknown payment method to fail")
	}

	if err := ValidateCheckout(validForm(), nil); err == nil {
		t.Fatalf("expected empty cart to fail")
	}

	bad := []Line{{ProductID: 1, Quantity: 0, Price: 2.99}}
	if err := ValidateCheckout(validForm(), bad); err == nil {
		t.Fatalf("expected non-positive quantity to fail")
	}
}
