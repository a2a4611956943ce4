package openapi

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/schema"
)

const document = `
openapi: 3.0.3
info:
  title: Events
  version: "1.0"
paths:
  /events:
    post:
      operationId: createEvent
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [user_id, date]
              properties:
                user_id:
                  type: integer
                  minimum: 1
                  maximum: 9999
                date:
                  type: string
                  format: date
                start_time:
                  type: string
                  format: time
                chance:
                  type: number
                  multipleOf: 0.01
                  minimum: 0
                  maximum: 100
                  default: -1
                email:
                  type: string
                  x-formcheck-rules: [email]
                tags:
                  type: array
                  items:
                    type: string
      responses:
        "201":
          description: created
`

func TestFromOperation(t *testing.T) {
	s, err := FromOperation(context.Background(), []byte(document), "createEvent")
	if err != nil {
		t.Fatalf("from operation: %v", err)
	}

	want := map[string]schema.FieldSchema{
		"user_id":    {Rules: []string{"required", "number"}, Min: schema.Float(1), Max: schema.Float(9999)},
		"date":       {Rules: []string{"required", "date"}},
		"start_time": {Rules: []string{"time"}},
		"chance":     {Rules: []string{"float"}, DP: 2, Min: schema.Float(0), Max: schema.Float(100), DefaultValue: schema.String("-1")},
		"email":      {Rules: []string{"email"}},
	}
	if diff := cmp.Diff(want, s.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOperation_Errors(t *testing.T) {
	if _, err := FromOperation(context.Background(), []byte(document), "missing"); !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := FromOperation(context.Background(), nil, "createEvent"); err == nil {
		t.Fatalf("expected empty document error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FromOperation(ctx, []byte(document), "createEvent"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestDecimalPlaces(t *testing.T) {
	cases := map[float64]int{0.01: 2, 0.5: 1, 0.001: 3, 1: 0, 5: 0, 0: 0}
	for step, want := range cases {
		if got := decimalPlaces(step); got != want {
			t.Fatalf("decimalPlaces(%v) = %d, want %d", step, got, want)
		}
	}
}
