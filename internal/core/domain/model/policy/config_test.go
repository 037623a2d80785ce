package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/policy"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "commission_policy.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTable(t *testing.T) {
	t.Run("should load a complete policy file", func(t *testing.T) {
		path := writePolicyFile(t, `{
			"PHYSICAL": {
				"delivery_agent_percent": "40",
				"site_manager_percent": "20",
				"referral_percent": "10",
				"delivery_agent_forfeit_to": "platform",
				"site_manager_forfeit_to": "platform",
				"referral_forfeit_to": "platform"
			},
			"LOCAL_MARKET": {
				"delivery_agent_percent": 50,
				"site_manager_percent": 0,
				"referral_percent": 10,
				"referral_forfeit_to": "delivery_agent"
			}
		}`)

		table, err := policy.LoadTable(path)

		require.NoError(t, err)
		require.NoError(t, table.Validate())

		physical, err := table.For(order.CategoryPhysical)
		require.NoError(t, err)
		assert.True(t, physical.SiteManagerPercent.Equal(decimal.NewFromInt(20)))

		local, err := table.For(order.CategoryLocalMarket)
		require.NoError(t, err)
		assert.True(t, local.DeliveryAgentPercent.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, policy.ForfeitToDeliveryAgent, local.ReferralForfeitTo)
	})

	t.Run("should default omitted forfeit targets to the platform", func(t *testing.T) {
		path := writePolicyFile(t, `{
			"LOCAL_MARKET": {
				"delivery_agent_percent": "50",
				"referral_percent": "10"
			}
		}`)

		table, err := policy.LoadTable(path)

		require.NoError(t, err)

		local, err := table.For(order.CategoryLocalMarket)
		require.NoError(t, err)
		assert.Equal(t, policy.ForfeitToPlatform, local.DeliveryAgentForfeitTo)
		assert.Equal(t, policy.ForfeitToPlatform, local.ReferralForfeitTo)
	})

	t.Run("should reject an unknown category name", func(t *testing.T) {
		path := writePolicyFile(t, `{
			"DIGITAL": {
				"delivery_agent_percent": "50"
			}
		}`)

		_, err := policy.LoadTable(path)

		require.Error(t, err)
	})

	t.Run("should reject a row violating the table rules", func(t *testing.T) {
		path := writePolicyFile(t, `{
			"LOCAL_MARKET": {
				"delivery_agent_percent": "70",
				"referral_percent": "40"
			}
		}`)

		_, err := policy.LoadTable(path)

		require.Error(t, err)
	})

	t.Run("should fail when the file does not exist", func(t *testing.T) {
		_, err := policy.LoadTable(filepath.Join(t.TempDir(), "missing.json"))

		require.Error(t, err)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		path := writePolicyFile(t, `{ "PHYSICAL": `)

		_, err := policy.LoadTable(path)

		require.Error(t, err)
	})
}
