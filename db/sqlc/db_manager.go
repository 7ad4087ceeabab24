package sqlc

import (
	"errors"
	"net"
	"time"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

var ErrAnalyticsDisabled = errors.New("analytics is disabled; no database configured")

type DbManager struct {
	Analytics *AnalyticsManager
}

// A nil queries yields a manager whose analytics are disabled.
func NewDbManager(queries Querier, serverIpNet net.IPNet) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(queries, serverIpNet),
	}
}
