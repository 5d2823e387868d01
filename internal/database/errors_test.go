// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapErr(t *testing.T) {
	driverErr := errors.New("connection reset")

	if wrapErr("op", nil) != nil {
		t.Error("nil should stay nil")
	}
	if err := wrapErr("op", ErrNotFound); err != ErrNotFound {
		t.Errorf("ErrNotFound should pass through, got %v", err)
	}

	err := wrapErr("insert movie", driverErr)
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StoreError, got %T", err)
	}
	if se.Op != "insert movie" {
		t.Errorf("Op = %q", se.Op)
	}
	if !errors.Is(err, driverErr) {
		t.Error("StoreError should unwrap to the driver error")
	}
	if err.Error() != "store: insert movie: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}

	again := wrapErr("outer", fmt.Errorf("ctx: %w", err))
	if !errors.As(again, &se) || se.Op != "insert movie" {
		t.Error("already wrapped errors keep their original op")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"dark":     "dark",
		"100%":     `100\%`,
		"a_b":      `a\_b`,
		`back\sl`:  `back\\sl`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInList(t *testing.T) {
	ph, args := inList([]int64{7, 8, 9}, 2)
	if ph != "$2, $3, $4" {
		t.Errorf("placeholders = %q", ph)
	}
	if len(args) != 3 || args[0] != int64(7) {
		t.Errorf("args = %v", args)
	}
}
