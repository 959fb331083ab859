package metrics

import "time"

// NoopMetrics is a no-operation Recorder used when metrics are disabled.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordAuthCodeIssued(success bool)                              {}
func (n *NoopMetrics) RecordCodeRedemption(result string)                             {}
func (n *NoopMetrics) RecordTokenIssued(flow string)                                  {}
func (n *NoopMetrics) RecordTokenRefresh(flow string, success bool)                   {}
func (n *NoopMetrics) RecordSessionRevoked(flow string)                               {}
func (n *NoopMetrics) RecordFrameProcessed(result string, duration time.Duration)     {}
func (n *NoopMetrics) RecordFaceMatch(matched bool)                                   {}
func (n *NoopMetrics) RecordAuthFlow(authType, result string)                         {}
func (n *NoopMetrics) SetActiveSessionsCount(flow string, count int)                  {}
func (n *NoopMetrics) SetEnrolledFacesCount(count int)                                {}
func (n *NoopMetrics) SetPendingAuthCodesCount(count int)                             {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                      {}
