// Package awslambda はAWS Lambda経由で両データソースを呼び出すトランスポート実装です。
// HTTP直接呼び出し版（polygon, marketwatch）と同じusecaseインターフェースを満たすため、
// 呼び出し側はトランスポートの違いを意識しません。
package awslambda

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/lambda"

	"stock_tracker/internal/feature/stocks/domain"
)

// Invoker はLambda呼び出しを抽象化します。*lambda.Lambdaが満たします。
// Goの慣例に従い、インターフェースは利用者側で定義します。
type Invoker interface {
	InvokeWithContext(ctx aws.Context, input *lambda.InvokeInput, opts ...request.Option) (*lambda.InvokeOutput, error)
}

// envelope はLambdaレスポンスの共通ラッパーです。
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// errorBody は失敗時のボディです。
type errorBody struct {
	Error string `json:"error"`
}

// invoke はLambdaを呼び出してエンベロープを検証し、成功時のボディを返します。
func invoke(ctx aws.Context, inv Invoker, functionName string, payload any) (json.RawMessage, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", functionName, err)
	}

	out, err := inv.InvokeWithContext(ctx, &lambda.InvokeInput{
		FunctionName: aws.String(functionName),
		Payload:      b,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invoke %s: %v", domain.ErrUpstream, functionName, err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("%w: %s function error: %s", domain.ErrUpstream, functionName, aws.StringValue(out.FunctionError))
	}

	var env envelope
	if err := json.Unmarshal(out.Payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %s returned malformed envelope: %v", domain.ErrUpstream, functionName, err)
	}
	if env.StatusCode != 200 {
		var eb errorBody
		_ = json.Unmarshal(env.Body, &eb)
		if eb.Error == "" {
			eb.Error = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s error: %s", domain.ErrUpstream, functionName, eb.Error)
	}
	return env.Body, nil
}
