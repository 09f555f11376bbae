package oscillator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveFreq(t *testing.T) {
	clk := NewSystemClock(IPOFreq, 2)
	assert.EqualValues(t, 50_000_000, clk.EffectiveFreq())
	assert.EqualValues(t, IPOFreq, clk.Freq())
	assert.EqualValues(t, 2, clk.Div())
}

func TestZeroDividerTreatedAsOne(t *testing.T) {
	clk := NewSystemClock(ISOFreq, 0)
	assert.EqualValues(t, ISOFreq, clk.EffectiveFreq())
}

func TestIPODefault(t *testing.T) {
	clk := IPO()
	assert.EqualValues(t, IPOFreq, clk.EffectiveFreq())
}
