package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

func makeEntry(amount float64, nominal, tax, desc, hint string) ledger.HistoryEntry {
	return ledger.HistoryEntry{
		ID:               "h-" + desc,
		Date:             time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:           amount,
		NominalCode:      nominal,
		TaxCode:          tax,
		DescriptionRaw:   desc,
		DescriptionClean: desc,
		VendorHint:       hint,
	}
}

func TestCounter_MostCommon(t *testing.T) {
	c := NewCounter()
	_, ok := c.MostCommon()
	assert.False(t, ok)

	c.Add("5100")
	c.Add("5200")
	c.Add("5200")

	value, ok := c.MostCommon()
	require.True(t, ok)
	assert.Equal(t, "5200", value)
}

func TestCounter_TieBreaksFirstSeen(t *testing.T) {
	c := NewCounter()
	c.Add("7500")
	c.Add("5100")
	c.Add("5100")
	c.Add("7500")

	value, ok := c.MostCommon()
	require.True(t, ok)
	assert.Equal(t, "7500", value, "first-seen value wins a tie")
}

func TestCounter_IgnoresEmptyValues(t *testing.T) {
	c := NewCounter()
	c.Add("")
	c.Add("")

	_, ok := c.MostCommon()
	assert.False(t, ok, "blank codes are missing data, not observations")

	c.Add("5100")
	c.Add("")

	value, ok := c.MostCommon()
	require.True(t, ok)
	assert.Equal(t, "5100", value)
}

func TestBuild_GroupsByVendorKey(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeEntry(-120.00, "5100", "T1", "wrights uk ltd inv", ""),
		makeEntry(-80.00, "5100", "T1", "wrights uk ltd payment", ""),
		makeEntry(-45.50, "7500", "T0", "british gas dd", ""),
	}

	snapshot := Build(history)

	vendors := snapshot.Vendors()
	require.Len(t, vendors, 3, "no vendor hint means each description is its own key")

	wrights, ok := snapshot.Vendor("wrights uk ltd inv")
	require.True(t, ok)
	nominal, ok := wrights.DominantNominal()
	require.True(t, ok)
	assert.Equal(t, "5100", nominal)
}

func TestBuild_VendorHintMergesPostings(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeEntry(-120.00, "5100", "T1", "wrights uk ltd inv march", "wrights uk ltd"),
		makeEntry(-135.00, "5100", "T1", "wrights uk ltd inv april", "wrights uk ltd"),
		makeEntry(-90.00, "5200", "T1", "wrights uk ltd refund", "wrights uk ltd"),
	}

	snapshot := Build(history)
	require.Len(t, snapshot.Vendors(), 1)

	vendor, ok := snapshot.Vendor("wrights uk ltd")
	require.True(t, ok)

	nominal, _ := vendor.DominantNominal()
	assert.Equal(t, "5100", nominal)

	// Full descriptions of every contributing posting become aliases.
	assert.Contains(t, vendor.Aliases(), "wrights uk ltd inv march")
	assert.Contains(t, vendor.Aliases(), "wrights uk ltd inv april")
	// Token prefixes of the key too.
	assert.Contains(t, vendor.Aliases(), "wrights uk")
	assert.Contains(t, vendor.Aliases(), "wrights uk ltd")
}

func TestBuild_SkipsEmptyKeys(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeEntry(-10.00, "5100", "T1", "", ""),
		makeEntry(-10.00, "5100", "T1", "12/03/24 4411", ""),
	}

	// The second entry's description normalizes to empty once dates and
	// numbers are stripped.
	history[1].DescriptionClean = ""

	snapshot := Build(history)
	assert.Empty(t, snapshot.Vendors())
}

func TestVendor_MedianAmount(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeEntry(-100.00, "5100", "T1", "acme supplies", ""),
		makeEntry(-300.00, "5100", "T1", "acme supplies", ""),
		makeEntry(-200.00, "5100", "T1", "acme supplies", ""),
	}

	snapshot := Build(history)
	vendor, ok := snapshot.Vendor("acme supplies")
	require.True(t, ok)

	median, ok := vendor.MedianAmount()
	require.True(t, ok)
	assert.InDelta(t, 200.0, median, 0.001)
}

func TestVendor_MedianAmount_EvenCount(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeEntry(-100.00, "5100", "T1", "acme supplies", ""),
		makeEntry(-200.00, "5100", "T1", "acme supplies", ""),
	}

	snapshot := Build(history)
	vendor, _ := snapshot.Vendor("acme supplies")

	median, ok := vendor.MedianAmount()
	require.True(t, ok)
	assert.InDelta(t, 150.0, median, 0.001)
}

func TestVendor_DominantDirection(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeEntry(-100.00, "5100", "T1", "acme supplies", ""),
		makeEntry(-50.00, "5100", "T1", "acme supplies", ""),
		makeEntry(25.00, "5100", "T1", "acme supplies", ""),
	}

	snapshot := Build(history)
	vendor, _ := snapshot.Vendor("acme supplies")

	direction, ok := vendor.DominantDirection()
	require.True(t, ok)
	assert.Equal(t, ledger.Debit, direction)
}

func TestAmountGroups(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeEntry(-250.00, "5100", "T1", "acme supplies", ""),
		makeEntry(-250.00, "5100", "T1", "fresh catering co", ""),
		makeEntry(250.00, "4000", "T0", "customer receipt", ""),
	}

	snapshot := Build(history)

	debitGroup, ok := snapshot.Amount(AmountKey{Direction: ledger.Debit, Amount: 250.00})
	require.True(t, ok)
	nominal, _ := debitGroup.DominantNominal()
	assert.Equal(t, "5100", nominal)

	creditGroup, ok := snapshot.Amount(AmountKey{Direction: ledger.Credit, Amount: 250.00})
	require.True(t, ok)
	nominal, _ = creditGroup.DominantNominal()
	assert.Equal(t, "4000", nominal)
}

func TestKeyFor_RoundsToTwoDecimals(t *testing.T) {
	key := KeyFor(-10.005)
	assert.Equal(t, ledger.Debit, key.Direction)
	assert.InDelta(t, 10.01, key.Amount, 0.0001)

	key = KeyFor(99.999)
	assert.Equal(t, ledger.Credit, key.Direction)
	assert.InDelta(t, 100.00, key.Amount, 0.0001)
}
