package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/autobmg/processdocs/config"
)

// AWSClients groups the SDK clients the pipeline adapters need.
type AWSClients struct {
	Lambda    *lambda.Client
	S3        *s3.Client
	Presigner *s3.PresignClient
}

// BuildAWSClients loads the SDK configuration and constructs the Lambda and
// S3 clients. Static credentials from the environment take precedence; with
// none set the SDK's default chain (instance profile, SSO, shared config)
// applies.
func BuildAWSClients(ctx context.Context, cfg config.AWSConfig, logger *slog.Logger) (*AWSClients, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	// Remote jobs run for minutes; the Lambda client's HTTP layer must wait
	// at least as long as one synchronous invocation.
	lambdaClient := lambda.NewFromConfig(awsCfg, func(o *lambda.Options) {
		o.HTTPClient = &http.Client{Timeout: cfg.InvokeTimeout + time.Minute}
	})

	s3Client := s3.NewFromConfig(awsCfg)
	presigner := s3.NewPresignClient(s3Client)

	if logger != nil {
		logger.Info("aws clients initialised",
			"region", cfg.Region,
			"bucket", cfg.Bucket,
			"function", cfg.LambdaName,
			"static_credentials", cfg.AccessKeyID != "",
		)
	}

	return &AWSClients{
		Lambda:    lambdaClient,
		S3:        s3Client,
		Presigner: presigner,
	}, nil
}
