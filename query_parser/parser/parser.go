// Package parser turns the restricted dialect
//
//	SELECT <agg>(<col>) FROM <table> [WHERE <cond>] [GROUP BY <col>]
//
// into a types.Query. The only WHERE forms the engine interprets itself are
// bounds on amount: BETWEEN x AND y, > x, and >= x AND <= y.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	lex "ApproxDB/query_parser/lexer"
	"ApproxDB/types"
)

type Parser struct {
	l         *lex.Lexer
	curToken  lex.Token
	peekToken lex.Token
}

func New(l *lex.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is a convenience wrapper: lex and parse one statement.
func Parse(sql string) (*types.Query, error) {
	return New(lex.New(sql)).ParseQuery()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) expect(kind lex.TokenKind) error {
	if p.curToken.Kind != kind {
		return fmt.Errorf("%w: expected %s, got %s (%q)",
			types.ErrInvalidArgument, kind, p.curToken.Kind, p.curToken.Value)
	}
	return nil
}

// ParseQuery parses a single SELECT statement.
func (p *Parser) ParseQuery() (*types.Query, error) {
	if err := p.expect(lex.SELECT); err != nil {
		return nil, err
	}
	p.nextToken()

	agg, err := p.parseAgg()
	if err != nil {
		return nil, err
	}

	if err := p.expect(lex.OPENROUNDED); err != nil {
		return nil, err
	}
	p.nextToken()

	var column string
	switch p.curToken.Kind {
	case lex.IDENT:
		column = p.curToken.Value
	case lex.ASTERISK:
		column = "*"
	default:
		return nil, fmt.Errorf("%w: expected column, got %q", types.ErrInvalidArgument, p.curToken.Value)
	}
	p.nextToken()

	if err := p.expect(lex.CLOSEDROUNDED); err != nil {
		return nil, err
	}
	p.nextToken()

	if err := p.expect(lex.FROM); err != nil {
		return nil, err
	}
	p.nextToken()
	if err := p.expect(lex.IDENT); err != nil {
		return nil, err
	}
	table := p.curToken.Value
	p.nextToken()

	q := &types.Query{Agg: agg, Column: column, Table: table}

	if p.curToken.Kind == lex.WHERE {
		p.nextToken()
		bounds, raw, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		q.Where = bounds
		q.RawWhere = raw
	}

	if p.curToken.Kind == lex.GROUP {
		p.nextToken()
		if err := p.expect(lex.BY); err != nil {
			return nil, err
		}
		p.nextToken()
		if err := p.expect(lex.IDENT); err != nil {
			return nil, err
		}
		q.GroupBy = p.curToken.Value
		p.nextToken()
	}

	if p.curToken.Kind == lex.SEMICOLON {
		p.nextToken()
	}
	if err := p.expect(lex.END); err != nil {
		return nil, fmt.Errorf("%w: trailing input %q", types.ErrInvalidArgument, p.curToken.Value)
	}
	return q, nil
}

func (p *Parser) parseAgg() (types.AggKind, error) {
	switch p.curToken.Kind {
	case lex.SUM:
		p.nextToken()
		return types.AggSum, nil
	case lex.AVG:
		p.nextToken()
		return types.AggAvg, nil
	case lex.COUNT:
		p.nextToken()
		return types.AggCount, nil
	default:
		return "", fmt.Errorf("%w: unsupported aggregation function %q (supported: SUM, COUNT, AVG)",
			types.ErrInvalidArgument, p.curToken.Value)
	}
}

// parseWhere handles the three interpreted forms on amount:
//
//	amount BETWEEN x AND y
//	amount > x
//	amount >= x AND amount <= y
func (p *Parser) parseWhere() (*types.AmountBounds, string, error) {
	if err := p.expect(lex.IDENT); err != nil {
		return nil, "", err
	}
	column := p.curToken.Value
	if !strings.EqualFold(column, "amount") {
		return nil, "", fmt.Errorf("%w: only amount predicates are supported, got %q",
			types.ErrInvalidArgument, column)
	}
	p.nextToken()

	switch p.curToken.Kind {
	case lex.BETWEEN:
		p.nextToken()
		lo, err := p.parseNumber()
		if err != nil {
			return nil, "", err
		}
		if err := p.expect(lex.AND); err != nil {
			return nil, "", err
		}
		p.nextToken()
		hi, err := p.parseNumber()
		if err != nil {
			return nil, "", err
		}
		raw := fmt.Sprintf("amount BETWEEN %g AND %g", lo, hi)
		return &types.AmountBounds{Lo: lo, Hi: hi}, raw, nil

	case lex.GT:
		p.nextToken()
		lo, err := p.parseNumber()
		if err != nil {
			return nil, "", err
		}
		raw := fmt.Sprintf("amount > %g", lo)
		return &types.AmountBounds{Lo: math.Nextafter(lo, math.Inf(1)), Hi: math.Inf(1)}, raw, nil

	case lex.GTE:
		p.nextToken()
		lo, err := p.parseNumber()
		if err != nil {
			return nil, "", err
		}
		if err := p.expect(lex.AND); err != nil {
			return nil, "", err
		}
		p.nextToken()
		if err := p.expect(lex.IDENT); err != nil {
			return nil, "", err
		}
		if !strings.EqualFold(p.curToken.Value, "amount") {
			return nil, "", fmt.Errorf("%w: range must repeat the amount column", types.ErrInvalidArgument)
		}
		p.nextToken()
		if err := p.expect(lex.LTE); err != nil {
			return nil, "", err
		}
		p.nextToken()
		hi, err := p.parseNumber()
		if err != nil {
			return nil, "", err
		}
		raw := fmt.Sprintf("amount >= %g AND amount <= %g", lo, hi)
		return &types.AmountBounds{Lo: lo, Hi: hi}, raw, nil

	default:
		return nil, "", fmt.Errorf("%w: unsupported predicate after amount: %q",
			types.ErrInvalidArgument, p.curToken.Value)
	}
}

func (p *Parser) parseNumber() (float64, error) {
	if err := p.expect(lex.NUMBER); err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(p.curToken.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", types.ErrInvalidArgument, p.curToken.Value)
	}
	p.nextToken()
	return v, nil
}
