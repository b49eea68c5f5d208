package httpserver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bukucerdas/bookstore/internal/transport"
)

// formValues reads optional multipart fields into pointer DTOs. Absent keys
// stay nil; present but malformed numbers are reported by the first failing
// key.
type formValues struct {
	v   url.Values
	err error
}

func (f *formValues) str(key string) *string {
	if _, ok := f.v[key]; !ok {
		return nil
	}
	s := f.v.Get(key)
	return &s
}

func (f *formValues) parse(key string, fn func(string) error) {
	s := f.str(key)
	if s == nil || f.err != nil {
		return
	}
	if err := fn(strings.TrimSpace(*s)); err != nil {
		f.err = fmt.Errorf("%s is not a valid value", key)
	}
}

func (f *formValues) int(key string) *int {
	var out *int
	f.parse(key, func(s string) error {
		n, err := strconv.Atoi(s)
		out = &n
		return err
	})
	return out
}

func (f *formValues) int64(key string) *int64 {
	var out *int64
	f.parse(key, func(s string) error {
		n, err := strconv.ParseInt(s, 10, 64)
		out = &n
		return err
	})
	return out
}

func (f *formValues) uint(key string) *uint {
	var out *uint
	f.parse(key, func(s string) error {
		n, err := strconv.ParseUint(s, 10, 64)
		u := uint(n)
		out = &u
		return err
	})
	return out
}

func (f *formValues) float(key string) *float64 {
	var out *float64
	f.parse(key, func(s string) error {
		n, err := strconv.ParseFloat(s, 64)
		out = &n
		return err
	})
	return out
}

func (f *formValues) bool(key string) *bool {
	var out *bool
	f.parse(key, func(s string) error {
		b, err := strconv.ParseBool(s)
		out = &b
		return err
	})
	return out
}

func patchBookFromForm(v url.Values) (transport.PatchBookRequest, error) {
	f := &formValues{v: v}
	req := transport.PatchBookRequest{
		Title:      f.str("title"),
		Author:     f.str("author"),
		Publisher:  f.str("publisher"),
		Year:       f.int("year"),
		ISBN:       f.str("isbn"),
		Stock:      f.int("stock"),
		Price:      f.int64("price"),
		Synopsis:   f.str("synopsis"),
		CoverURL:   f.str("coverUrl"),
		CategoryID: f.uint("categoryId"),
		Status:     f.str("status"),
	}
	return req, f.err
}

func settingsFromForm(v url.Values) (transport.SettingsRequest, error) {
	f := &formValues{v: v}
	req := transport.SettingsRequest{
		TaxPercent:          f.float("taxPercent"),
		BankName:            f.str("bankName"),
		BankAccountNumber:   f.str("bankAccountNumber"),
		BankAccountName:     f.str("bankAccountName"),
		EWalletName:         f.str("ewalletName"),
		EWalletNumber:       f.str("ewalletNumber"),
		CODEnabled:          f.bool("codEnabled"),
		BankTransferEnabled: f.bool("bankTransferEnabled"),
		EWalletEnabled:      f.bool("ewalletEnabled"),
		QRISEnabled:         f.bool("qrisEnabled"),
	}
	return req, f.err
}
