package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGateway(t *testing.T) {
	ok := gatewayRequestsTotal.WithLabelValues(GatewayChat, "ok")
	failed := gatewayRequestsTotal.WithLabelValues(GatewayChat, "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveGateway(GatewayChat, nil)
	ObserveGateway(GatewayChat, errors.New("boom"))
	ObserveGateway(GatewayChat, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+2, testutil.ToFloat64(failed))
}

func TestChatSendDroppedAndCategoryLoad(t *testing.T) {
	before := testutil.ToFloat64(chatSendsDroppedTotal)
	ChatSendDropped()
	assert.Equal(t, before+1, testutil.ToFloat64(chatSendsDroppedTotal))

	loaded := categoryLoadsTotal.WithLabelValues("ok")
	before = testutil.ToFloat64(loaded)
	CategoryLoad(nil)
	assert.Equal(t, before+1, testutil.ToFloat64(loaded))
}
