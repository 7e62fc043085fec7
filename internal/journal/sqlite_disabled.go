//go:build !sqlite
// +build !sqlite

package journal

import (
	"errors"

	"github.com/Abubakarusba/scorelaship-bot/pkg/logx"
)

func openSQLite(cfg Config, log logx.Logger) (Journal, error) {
	return nil, errors.New("journal: sqlite driver not compiled in (build with -tags sqlite)")
}
