// ===================================
// File: internal/launchpad/config.go
// ===================================
package launchpad

import (
	"github.com/rovshanmuradov/curvelab/internal/layout"
)

// CurveVariant selects which pricing formula applies to a pool. It is read
// from the pool's config account, never from the pool account itself.
type CurveVariant uint8

const (
	ConstantProduct CurveVariant = 0
	FixedPrice      CurveVariant = 1
	LinearPrice     CurveVariant = 2
)

func (v CurveVariant) String() string {
	switch v {
	case ConstantProduct:
		return "constant_product"
	case FixedPrice:
		return "fixed_price"
	case LinearPrice:
		return "linear_price"
	default:
		return "unknown"
	}
}

// Config account offsets.
const (
	offConfigEpoch     = 8
	offCurveType       = 16
	offConfigIndex     = 17
	offTradeFeeRate    = 18
	offProtocolFeeRate = 26
	offFundFeeRate     = 34

	// MinConfigAccountLen covers through the fund fee rate.
	MinConfigAccountLen = 42
)

// CurveConfig is the decoded curve-config account. Fee rates are parts per
// million against quote.FeeDenominator.
type CurveConfig struct {
	Epoch           uint64
	CurveType       CurveVariant
	Index           uint8
	TradeFeeRate    uint64
	ProtocolFeeRate uint64
	FundFeeRate     uint64
}

// DecodeConfig parses a raw curve-config account buffer. A curve-type byte
// outside the known variant set is a decode error, never a silent default.
func DecodeConfig(data []byte) (*CurveConfig, error) {
	r := layout.NewReader(data)
	cfg := &CurveConfig{}

	var err error
	if cfg.Epoch, err = r.U64("epoch", offConfigEpoch); err != nil {
		return nil, err
	}

	curveType, err := r.Enum("curve_type", offCurveType,
		uint8(ConstantProduct), uint8(FixedPrice), uint8(LinearPrice))
	if err != nil {
		return nil, err
	}
	cfg.CurveType = CurveVariant(curveType)

	if cfg.Index, err = r.U8("index", offConfigIndex); err != nil {
		return nil, err
	}
	if cfg.TradeFeeRate, err = r.U64("trade_fee_rate", offTradeFeeRate); err != nil {
		return nil, err
	}
	if cfg.ProtocolFeeRate, err = r.U64("protocol_fee_rate", offProtocolFeeRate); err != nil {
		return nil, err
	}
	if cfg.FundFeeRate, err = r.U64("fund_fee_rate", offFundFeeRate); err != nil {
		return nil, err
	}

	return cfg, nil
}
