package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-access/pkg/util"
)

type account struct {
	ID      int
	Name    string
	Balance float64
	Active  bool
	Opened  time.Time
}

var accountSchema = Schema[account]{
	{Name: "id", Kind: KindInt, Value: func(a account) any { return a.ID }},
	{Name: "name", Kind: KindText, Value: func(a account) any { return a.Name }},
	{Name: "balance", Kind: KindFloat, Value: func(a account) any { return a.Balance }},
	{Name: "active", Kind: KindBool, Value: func(a account) any { return a.Active }},
	{Name: "opened", Kind: KindDateTime, Value: func(a account) any { return a.Opened }},
}

func fixtureAccounts(t *testing.T) []account {
	t.Helper()
	opened := func(s string) time.Time {
		parsed, err := time.Parse(DateTimeLayout, s)
		require.NoError(t, err)
		return parsed
	}
	return []account{
		{ID: 4, Name: "Johnny Zane", Balance: 120.5, Active: true, Opened: opened("01/03/2024-09h00")},
		{ID: 2, Name: "Alice Moor", Balance: 42, Active: false, Opened: opened("15/06/2023-14h30")},
		{ID: 3, Name: "john smith", Balance: 42, Active: true, Opened: opened("20/01/2025-08h15")},
		{ID: 1, Name: "Berthe Klein", Balance: 999.99, Active: false, Opened: opened("05/11/2022-18h45")},
	}
}

func names(accounts []account) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Name)
	}
	return out
}

func TestApplyTextFilterIsCaseInsensitiveSubstringAndSorts(t *testing.T) {
	out, err := Apply(accountSchema, fixtureAccounts(t), "name", "JOHN")
	require.NoError(t, err)
	assert.Equal(t, []string{"john smith", "Johnny Zane"}, names(out))
}

func TestApplyUnknownFieldFails(t *testing.T) {
	_, err := Apply(accountSchema, fixtureAccounts(t), "nickname", "x")
	require.True(t, util.HasCode(err, util.CodeInvalidField))
	assert.Equal(t, "invalid field: nickname", util.ToDomainError(err).Message)
}

func TestApplyValueOnlyMatchesAcrossCompatibleFields(t *testing.T) {
	// "42" parses as int and float: matches id 42 (none), balance 42 (two
	// accounts) and any name containing "42" (none).
	out, err := Apply(accountSchema, fixtureAccounts(t), "", "42")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alice Moor", "john smith"}, names(out))
}

func TestApplyValueOnlyKeepsInsertionOrder(t *testing.T) {
	out, err := Apply(accountSchema, fixtureAccounts(t), "", "o")
	require.NoError(t, err)
	assert.Equal(t, []string{"Johnny Zane", "Alice Moor", "john smith"}, names(out))
}

func TestApplyBadTypedValuesFail(t *testing.T) {
	cases := map[string]struct {
		field, value, message string
	}{
		"int":  {"id", "abc", "invalid integer value for field id"},
		"bool": {"active", "maybe", "invalid boolean value for field active"},
		"date": {"opened", "2024-03-01", "invalid date format for opened, expected format: DD/MM/YYYY-HHhMM"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Apply(accountSchema, fixtureAccounts(t), tc.field, tc.value)
			require.True(t, util.HasCode(err, util.CodeInvalidFilter))
			assert.Equal(t, tc.message, util.ToDomainError(err).Message)
		})
	}
}

func TestApplyExactMatchForTypedKinds(t *testing.T) {
	out, err := Apply(accountSchema, fixtureAccounts(t), "active", "true")
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = Apply(accountSchema, fixtureAccounts(t), "opened", "15/06/2023-14h30")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Alice Moor", out[0].Name)
}

func TestApplyFieldWithoutValueOnlySorts(t *testing.T) {
	out, err := Apply(accountSchema, fixtureAccounts(t), "id", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Berthe Klein", "Alice Moor", "john smith", "Johnny Zane"}, names(out))
}

func TestApplyWithoutFieldOrValueCopiesInput(t *testing.T) {
	in := fixtureAccounts(t)
	out, err := Apply(accountSchema, in, "", "")
	require.NoError(t, err)
	assert.Equal(t, names(in), names(out))

	out[0].Name = "mutated"
	assert.NotEqual(t, out[0].Name, in[0].Name, "result must be a copy")
}
