package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HAAN6892/real-estate-monitor/internal/models"
)

func salePy(name string, areaPy float64, price int) models.SaleProperty {
	return models.SaleProperty{Name: name, AreaPy: areaPy, Price: price}
}

func TestComputeJeonseRatesExactMatch(t *testing.T) {
	sales := []models.SaleProperty{
		salePy("A", 20, 50000),
		salePy("A", 20, 52000),
	}
	leases := []models.LeaseProperty{
		{Name: "A", AreaPy: 20, Deposit: 40000, LeaseType: models.LeaseJeonse},
	}

	matched := ComputeJeonseRates(leases, sales, 3)

	assert.Equal(t, 1, matched)
	// round(40000 / 51000 * 100) = 78
	assert.NotNil(t, leases[0].JeonseRate)
	assert.Equal(t, 78, *leases[0].JeonseRate)
}

func TestComputeJeonseRatesFallbackFirstFound(t *testing.T) {
	// No exact area match; two sale groups are within tolerance, and the one
	// appearing first in the sale list must win even though the second has
	// the closer area.
	sales := []models.SaleProperty{
		salePy("B", 23, 60000),
		salePy("B", 21, 40000),
	}
	leases := []models.LeaseProperty{
		{Name: "B", AreaPy: 20.5, Deposit: 30000, LeaseType: models.LeaseJeonse},
	}

	matched := ComputeJeonseRates(leases, sales, 3)

	assert.Equal(t, 1, matched)
	assert.Equal(t, 50, *leases[0].JeonseRate) // 30000/60000
}

func TestComputeJeonseRatesToleranceBound(t *testing.T) {
	sales := []models.SaleProperty{salePy("C", 28, 50000)}
	leases := []models.LeaseProperty{
		{Name: "C", AreaPy: 25, Deposit: 30000, LeaseType: models.LeaseJeonse},
		{Name: "C", AreaPy: 24.5, Deposit: 30000, LeaseType: models.LeaseJeonse},
	}

	matched := ComputeJeonseRates(leases, sales, 3)

	assert.Equal(t, 1, matched)
	assert.NotNil(t, leases[0].JeonseRate) // |28-25| = 3, inside
	assert.Nil(t, leases[1].JeonseRate)    // |28-24.5| = 3.5, outside
}

func TestComputeJeonseRatesMonthlyAlwaysNil(t *testing.T) {
	sales := []models.SaleProperty{salePy("D", 20, 50000)}
	leases := []models.LeaseProperty{
		{Name: "D", AreaPy: 20, Deposit: 5000, MonthlyRent: 80, LeaseType: models.LeaseMonthly},
	}

	matched := ComputeJeonseRates(leases, sales, 3)

	assert.Equal(t, 0, matched)
	assert.Nil(t, leases[0].JeonseRate)
}

func TestComputeJeonseRatesNoSaleDataset(t *testing.T) {
	stale := 60
	leases := []models.LeaseProperty{
		{Name: "E", AreaPy: 20, Deposit: 30000, LeaseType: models.LeaseJeonse, JeonseRate: &stale},
	}

	matched := ComputeJeonseRates(leases, nil, 3)

	assert.Equal(t, 0, matched)
	assert.Nil(t, leases[0].JeonseRate)
}
