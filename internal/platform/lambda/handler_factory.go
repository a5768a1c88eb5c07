package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/echo"
	"github.com/labstack/echo/v4"
)

// HTTPAPIHandler serves API Gateway HTTP API (payload v2) events.
type HTTPAPIHandler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// RESTAPIHandler serves API Gateway REST API (payload v1) events.
type RESTAPIHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

func NewHTTPAPIHandler(e *echo.Echo) HTTPAPIHandler {
	adapter := echoadapter.NewV2(e)
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	}
}

func NewRESTAPIHandler(e *echo.Echo) RESTAPIHandler {
	adapter := echoadapter.New(e)
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	}
}

// NewHandler picks the adapter for the API Gateway payload version
// ("1.0" or "2.0"); anything else is treated as 2.0.
func NewHandler(e *echo.Echo, payloadVersion string) any {
	if payloadVersion == "1.0" {
		return NewRESTAPIHandler(e)
	}
	return NewHTTPAPIHandler(e)
}
