package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/ministryofjustice/pamo-utilities/config"
)

// DynamoClient defines the interface needed for scanning.
type DynamoClient interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// fetchDynamoDB scans the source's table into a Table. Column order comes
// from the source's explicit columns list, or from the sorted union of
// attribute names so the result is deterministic.
func (r *Resolver) fetchDynamoDB(src *config.SourceConfig) (*Table, error) {
	client := r.Dynamo
	if client == nil {
		var opts []func(*awsconfig.LoadOptions) error
		if src.Region != "" {
			opts = append(opts, awsconfig.WithRegion(src.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
		if err != nil {
			return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
		}
		client = dynamodb.NewFromConfig(cfg)
		r.Dynamo = client
	}

	input := &dynamodb.ScanInput{
		TableName: aws.String(src.Table),
	}

	paginator := dynamodb.NewScanPaginator(client, input)
	var items []map[string]any
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.TODO())
		if err != nil {
			return nil, fmt.Errorf("failed to scan table %s: %w", src.Table, err)
		}

		var pageItems []map[string]any
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		items = append(items, pageItems...)
	}

	columns := src.Columns
	if len(columns) == 0 {
		seen := make(map[string]struct{})
		for _, item := range items {
			for name := range item {
				if _, ok := seen[name]; !ok {
					seen[name] = struct{}{}
					columns = append(columns, name)
				}
			}
		}
		sort.Strings(columns)
	}

	t := &Table{Columns: columns}
	for _, item := range items {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = item[col]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
