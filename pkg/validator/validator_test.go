package validator

import (
	"context"
	"testing"
)

type handleStruct struct {
	Handle string `validate:"required,handle"`
}

type phoneStruct struct {
	Phone string `validate:"required,phone"`
}

func TestHandleRule(t *testing.T) {
	cases := []struct {
		handle string
		valid  bool
	}{
		{"jane", true},
		{"@jane", true},
		{"jane.doe_01", true},
		{"", false},
		{"@", false},
		{"jane doe", false},
		{"@@jane", false},
	}
	for _, c := range cases {
		err := Validate(context.Background(), handleStruct{Handle: c.handle})
		if (err == nil) != c.valid {
			t.Errorf("handle %q: err = %v, want valid=%v", c.handle, err, c.valid)
		}
	}
}

func TestPhoneRule(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"08123456789", true},
		{"+628123456789", true},
		{"1234567", false},
		{"0812-345-6789", false},
		{"phone", false},
	}
	for _, c := range cases {
		err := Validate(context.Background(), phoneStruct{Phone: c.phone})
		if (err == nil) != c.valid {
			t.Errorf("phone %q: err = %v, want valid=%v", c.phone, err, c.valid)
		}
	}
}
