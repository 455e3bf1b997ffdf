package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_List(t *testing.T) {
	reg := NewRegistry(Defaults())

	banks := reg.List()
	require.NotEmpty(t, banks)

	// Presentation order is stable; the first entry backs the client's
	// default selection.
	assert.Equal(t, "bbva-frances", banks[0].ID)
	assert.Equal(t, "BBVA Frances", banks[0].Name)

	seen := make(map[string]bool, len(banks))
	for _, b := range banks {
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		assert.NotEmpty(t, b.Name)
	}

	for _, id := range []string{
		"bbva-frances", "santander-rio", "galicia", "icbc", "icbc-formato-2",
		"icbc-formato-3", "macro", "nacion", "provincia-formato-1",
		"supervielle", "credicoop", "mercadopago", "hsbc",
	} {
		assert.True(t, seen[id], "missing bank %s", id)
	}
	assert.Len(t, banks, 13)
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry(Defaults())

	t.Run("known bank", func(t *testing.T) {
		p, err := reg.Get("santander-rio")
		require.NoError(t, err)
		assert.Equal(t, "Santander Rio", p.DisplayName)
		assert.Equal(t, AmountSplit, p.Amounts)
	})

	t.Run("unknown bank", func(t *testing.T) {
		_, err := reg.Get("banco-inexistente")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownBank)
	})
}

func TestRegistry_DuplicateIDPanics(t *testing.T) {
	dup := []*BankProfile{bbvaFrances(), bbvaFrances()}
	assert.Panics(t, func() { NewRegistry(dup) })
}

func TestDefaults_PatternSanity(t *testing.T) {
	for _, p := range Defaults() {
		t.Run(p.ID, func(t *testing.T) {
			var hasHeader, hasTxn bool
			for _, rule := range p.Rules {
				require.NotNil(t, rule.Pattern)
				switch rule.Kind {
				case LineHeader:
					hasHeader = true
				case LineTransaction:
					hasTxn = true
					// Transaction patterns must expose date + desc and at
					// least one amount group.
					names := rule.Pattern.SubexpNames()
					assert.Contains(t, names, "date")
					assert.Contains(t, names, "desc")
					if p.Amounts == AmountSplit {
						assert.Contains(t, names, "debit")
						assert.Contains(t, names, "credit")
					} else {
						assert.Contains(t, names, "amount")
					}
					if p.HasBalanceColumn {
						assert.Contains(t, names, "balance")
					}
				}
			}
			assert.True(t, hasHeader, "profile %s lacks a header rule", p.ID)
			assert.True(t, hasTxn, "profile %s lacks a transaction rule", p.ID)
			assert.NotEmpty(t, p.DateLayout)
			assert.NotEmpty(t, p.Currency)
		})
	}
}
