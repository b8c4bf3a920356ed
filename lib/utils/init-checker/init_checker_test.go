package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type dep interface{ Do() }

type depImpl struct{}

func (depImpl) Do() {}

func TestCheckInit(t *testing.T) {
	t.Run(`all initialized`, func(t *testing.T) {
		var d dep = depImpl{}
		require.NotPanics(t, func() { CheckInit("dep", d, "ptr", &depImpl{}) })
	})
	t.Run(`nil interface`, func(t *testing.T) {
		var d dep
		require.PanicsWithValue(t, "зависимость dep не инициализирована", func() { CheckInit("dep", d) })
	})
	t.Run(`typed nil pointer`, func(t *testing.T) {
		var p *depImpl
		require.Panics(t, func() { CheckInit("ptr", p) })
	})
	t.Run(`odd arguments`, func(t *testing.T) {
		require.Panics(t, func() { CheckInit("dep") })
	})
}
