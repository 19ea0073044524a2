package parser

import (
	"errors"
	"math"
	"testing"

	"ApproxDB/types"
)

func TestParseBasicAggregates(t *testing.T) {
	cases := []struct {
		sql    string
		agg    types.AggKind
		column string
		table  string
	}{
		{"SELECT SUM(amount) FROM sales", types.AggSum, "amount", "sales"},
		{"select avg(amount) from sales;", types.AggAvg, "amount", "sales"},
		{"SELECT COUNT(*) FROM sales", types.AggCount, "*", "sales"},
		{"SELECT COUNT(amount) FROM t", types.AggCount, "amount", "t"},
	}

	for _, c := range cases {
		q, err := Parse(c.sql)
		if err != nil {
			t.Fatalf("%q: %v", c.sql, err)
		}
		if q.Agg != c.agg || q.Column != c.column || q.Table != c.table {
			t.Errorf("%q parsed to %+v", c.sql, q)
		}
		if q.Where != nil || q.GroupBy != "" {
			t.Errorf("%q picked up phantom clauses: %+v", c.sql, q)
		}
	}
}

func TestParseWhereForms(t *testing.T) {
	q, err := Parse("SELECT SUM(amount) FROM sales WHERE amount BETWEEN 10 AND 20")
	if err != nil {
		t.Fatal(err)
	}
	if q.Where == nil || q.Where.Lo != 10 || q.Where.Hi != 20 {
		t.Errorf("BETWEEN bounds = %+v", q.Where)
	}

	q, err = Parse("SELECT SUM(amount) FROM sales WHERE amount > 50")
	if err != nil {
		t.Fatal(err)
	}
	if q.Where == nil || !math.IsInf(q.Where.Hi, 1) {
		t.Errorf("> bounds = %+v", q.Where)
	}
	if q.Where.Match(50) {
		t.Error("strict > must exclude the bound itself")
	}
	if !q.Where.Match(50.5) {
		t.Error("> must include values above the bound")
	}

	q, err = Parse("SELECT AVG(amount) FROM sales WHERE amount >= 5 AND amount <= 7.5")
	if err != nil {
		t.Fatal(err)
	}
	if q.Where == nil || q.Where.Lo != 5 || q.Where.Hi != 7.5 {
		t.Errorf(">= <= bounds = %+v", q.Where)
	}
	if !q.Where.Match(5) || !q.Where.Match(7.5) {
		t.Error("inclusive range must match its endpoints")
	}
}

func TestParseGroupBy(t *testing.T) {
	q, err := Parse("SELECT SUM(amount) FROM sales GROUP BY region")
	if err != nil {
		t.Fatal(err)
	}
	if q.GroupBy != "region" {
		t.Errorf("group by = %q", q.GroupBy)
	}

	q, err = Parse("SELECT SUM(amount) FROM sales WHERE amount > 10 GROUP BY product_id")
	if err != nil {
		t.Fatal(err)
	}
	if q.Where == nil || q.GroupBy != "product_id" {
		t.Errorf("combined clauses parsed to %+v", q)
	}
}

func TestParseRejects(t *testing.T) {
	bad := []string{
		"SELECT MAX(amount) FROM sales",
		"SELECT MEDIAN(amount) FROM t",
		"SELECT SUM amount FROM t",
		"SELECT SUM(amount) sales",
		"INSERT INTO t VALUES (1)",
		"SELECT SUM(amount) FROM t WHERE region = 1",
		"SELECT SUM(amount) FROM t WHERE amount < 5",
		"SELECT SUM(amount) FROM t GROUP region",
		"SELECT SUM(amount) FROM t extra garbage",
	}
	for _, sql := range bad {
		if _, err := Parse(sql); !errors.Is(err, types.ErrInvalidArgument) {
			t.Errorf("%q: expected ErrInvalidArgument, got %v", sql, err)
		}
	}
}
