// Package lambdaproxy serves API Gateway proxy events with an http.Handler,
// so the same gin router runs behind Lambda.
package lambdaproxy

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// Proxy adapts an http.Handler to the API Gateway REST proxy integration
type Proxy struct {
	adapter *httpadapter.HandlerAdapter
}

// New creates a new Proxy
func New(handler http.Handler) *Proxy {
	return &Proxy{adapter: httpadapter.New(handler)}
}

// Handle is the Lambda entry point. Bodies that are not valid UTF-8 come
// back base64 encoded.
func (p *Proxy) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return p.adapter.ProxyWithContext(ctx, event)
}
