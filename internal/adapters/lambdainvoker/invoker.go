// Package lambdainvoker submits document generation jobs to the remote AWS
// Lambda function.
package lambdainvoker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

// LambdaAPI is the slice of the Lambda client this adapter needs.
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// Options configures the invoker adapter.
type Options struct {
	Client       LambdaAPI // Required: Lambda client
	FunctionName string    // Required: remote job function identifier

	// DetailExpr is an optional JMESPath expression applied to the decoded
	// response body to extract a human-readable detail message.
	DetailExpr string
	Logger     *slog.Logger // Optional: structured logger
}

// Invoker triggers one synchronous remote job per process code. A single
// invocation attempt is made; the remote side generates documents
// asynchronously, so a 200 means accepted for processing, not finished.
type Invoker struct {
	client       LambdaAPI
	functionName string
	detailExpr   string
	logger       *slog.Logger
}

var _ core.JobInvoker = (*Invoker)(nil)

// New builds an Invoker. The detail expression is compiled eagerly so a bad
// configuration fails at startup rather than mid-batch.
func New(opts Options) (*Invoker, error) {
	if opts.Client == nil {
		return nil, errors.New("lambda client is required")
	}
	name := strings.TrimSpace(opts.FunctionName)
	if name == "" {
		return nil, errors.New("lambda function name is required")
	}

	expr := strings.TrimSpace(opts.DetailExpr)
	if expr != "" {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("compile detail expression %q: %w", expr, err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Invoker{
		client:       opts.Client,
		functionName: name,
		detailExpr:   expr,
		logger:       logger,
	}, nil
}

// jobPayload is the wire payload the remote function expects.
type jobPayload struct {
	Email       string `json:"email"`
	Login       string `json:"login"`
	Password    string `json:"password"`
	ProcessCode string `json:"process_code"`
	Timestamp   string `json:"timestamp"`
}

// jobResponse mirrors the remote function's envelope. Body arrives either as
// a JSON string or as a nested object.
type jobResponse struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

// Invoke implements core.JobInvoker.
func (i *Invoker) Invoke(ctx context.Context, req model.JobRequest) (*model.JobResult, error) {
	payload, err := json.Marshal(jobPayload{
		Email:       req.Email,
		Login:       req.Login,
		Password:    req.Password.Reveal(),
		ProcessCode: req.ProcessCode,
		Timestamp:   req.SubmittedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, model.WrapFailure(model.FailureTransport, "invoke lambda", "encoding payload", err)
	}

	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(i.functionName),
		InvocationType: lambdatypes.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, model.WrapFailure(model.FailureTransport, "invoke lambda",
			fmt.Sprintf("invoking %s", i.functionName), err)
	}

	if out.FunctionError != nil {
		return nil, model.NewFailure(model.FailureRemoteJob, "invoke lambda",
			fmt.Sprintf("function error: %s", aws.ToString(out.FunctionError)))
	}

	var resp jobResponse
	if err := json.Unmarshal(out.Payload, &resp); err != nil {
		return nil, model.WrapFailure(model.FailureRemoteJob, "invoke lambda",
			"decoding response envelope", err)
	}

	body := decodeBody(resp.Body)
	result := &model.JobResult{
		ProcessCode: req.ProcessCode,
		StatusCode:  resp.StatusCode,
		Body:        body,
		Detail:      i.extractDetail(resp.Body),
	}

	i.logger.DebugContext(ctx, "lambda invoked",
		"process_code", req.ProcessCode, "status_code", result.StatusCode)

	return result, nil
}

// decodeBody renders the body for diagnostics: JSON strings are unquoted,
// anything else is kept verbatim.
func decodeBody(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// extractDetail applies the configured JMESPath expression to the body.
// Extraction is best-effort: a non-JSON body or a non-matching expression
// yields an empty detail, never an error.
func (i *Invoker) extractDetail(raw json.RawMessage) string {
	if i.detailExpr == "" || len(raw) == 0 {
		return ""
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return ""
	}
	// Bodies delivered as embedded JSON strings get a second decode pass.
	if s, ok := data.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return ""
		}
		data = inner
	}

	got, err := jmespath.Search(i.detailExpr, data)
	if err != nil {
		return ""
	}
	if s, ok := got.(string); ok {
		return s
	}
	return ""
}
