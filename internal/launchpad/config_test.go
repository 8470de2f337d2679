package launchpad

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/curvelab/internal/layout"
)

func configAccount(curveType uint8, tradeFee, protocolFee, fundFee uint64) []byte {
	data := make([]byte, MinConfigAccountLen)
	binary.LittleEndian.PutUint64(data[offConfigEpoch:], 712)
	data[offCurveType] = curveType
	data[offConfigIndex] = 3
	binary.LittleEndian.PutUint64(data[offTradeFeeRate:], tradeFee)
	binary.LittleEndian.PutUint64(data[offProtocolFeeRate:], protocolFee)
	binary.LittleEndian.PutUint64(data[offFundFeeRate:], fundFee)
	return data
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(configAccount(uint8(LinearPrice), 25_000, 10_000, 5_000))
	require.NoError(t, err)

	assert.Equal(t, uint64(712), cfg.Epoch)
	assert.Equal(t, LinearPrice, cfg.CurveType)
	assert.Equal(t, uint8(3), cfg.Index)
	assert.Equal(t, uint64(25_000), cfg.TradeFeeRate)
	assert.Equal(t, uint64(10_000), cfg.ProtocolFeeRate)
	assert.Equal(t, uint64(5_000), cfg.FundFeeRate)
}

func TestDecodeConfig_UnknownCurveType(t *testing.T) {
	for _, v := range []uint8{3, 4, 255} {
		_, err := DecodeConfig(configAccount(v, 0, 0, 0))
		var unknown *layout.UnknownVariantError
		require.ErrorAs(t, err, &unknown, "curve type %d", v)
		assert.Equal(t, v, unknown.Value)
	}
}

func TestDecodeConfig_ShortBuffer(t *testing.T) {
	full := configAccount(0, 0, 0, 0)
	for _, n := range []int{0, 8, 16, 17, MinConfigAccountLen - 1} {
		_, err := DecodeConfig(full[:n])
		var short *layout.BufferTooShortError
		require.ErrorAs(t, err, &short, "length %d", n)
	}
}

func TestCurveVariantString(t *testing.T) {
	assert.Equal(t, "constant_product", ConstantProduct.String())
	assert.Equal(t, "fixed_price", FixedPrice.String())
	assert.Equal(t, "linear_price", LinearPrice.String())
	assert.Equal(t, "unknown", CurveVariant(7).String())
}
