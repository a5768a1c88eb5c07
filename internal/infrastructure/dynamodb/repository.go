package dynamodb

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"county-revenue/internal/domain"
	"county-revenue/internal/records"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsv2dynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsv2types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv2xray "github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"
)

// API is the subset of the DynamoDB client the repositories use.
type API interface {
	GetItem(ctx context.Context, in *awsv2dynamodb.GetItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *awsv2dynamodb.PutItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *awsv2dynamodb.DeleteItemInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *awsv2dynamodb.QueryInput, optFns ...func(*awsv2dynamodb.Options)) (*awsv2dynamodb.QueryOutput, error)
}

type Client struct {
	db        API
	tableName string
}

func NewClient(ctx context.Context, region, tableName string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	awsv2xray.AWSV2Instrumentor(&cfg.APIOptions)
	client := awsv2dynamodb.NewFromConfig(cfg)
	return &Client{db: client, tableName: tableName}, nil
}

// NewClientWithAPI wraps an existing DynamoDB API implementation.
func NewClientWithAPI(db API, tableName string) *Client {
	return &Client{db: db, tableName: tableName}
}

// Ping runs a one-item query against the table.
func (c *Client) Ping(ctx context.Context) error {
	return xray.Capture(ctx, "DynamoDB.Ping", func(ctx context.Context) error {
		_, err := c.db.Query(ctx, &awsv2dynamodb.QueryInput{
			TableName:              aws.String(c.tableName),
			KeyConditionExpression: aws.String("PK = :pk"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":pk": &awsv2types.AttributeValueMemberS{Value: collectionPK("health")},
			},
			Limit: aws.Int32(1),
		})
		return err
	})
}

func collectionPK(collection string) string { return "ENTITY#" + collection }
func recordSK(id string) string              { return "REC#" + id }

const recordSKPrefix = "REC#"

// maxCreateAttempts bounds id collisions on Create.
const maxCreateAttempts = 5

func isConditionalCheckFailure(err error) bool {
	var condErr *awsv2types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}

// RecordRepository stores one collection in a single-table layout:
// PK = ENTITY#<collection>, SK = REC#<id>. Seq keeps insertion order.
type RecordRepository[T records.Record[T]] struct {
	client     *Client
	collection string
	ids        records.IDGenerator
	seq        func() int64
}

func NewRecordRepository[T records.Record[T]](client *Client, collection string, ids records.IDGenerator) *RecordRepository[T] {
	seqIDs := records.NewTimestampIDs("")
	return &RecordRepository[T]{
		client:     client,
		collection: collection,
		ids:        ids,
		seq: func() int64 {
			n, _ := strconv.ParseInt(seqIDs.Next(nil), 10, 64)
			return n
		},
	}
}

func (r *RecordRepository[T]) key(id string) map[string]awsv2types.AttributeValue {
	return map[string]awsv2types.AttributeValue{
		"PK": &awsv2types.AttributeValueMemberS{Value: collectionPK(r.collection)},
		"SK": &awsv2types.AttributeValueMemberS{Value: recordSK(id)},
	}
}

func (r *RecordRepository[T]) item(rec T, seq int64) (map[string]awsv2types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, err
	}
	for k, v := range r.key(rec.RecordID()) {
		av[k] = v
	}
	av["EntityType"] = &awsv2types.AttributeValueMemberS{Value: r.collection}
	av["Seq"] = &awsv2types.AttributeValueMemberN{Value: strconv.FormatInt(seq, 10)}
	return av, nil
}

type storedRecord[T any] struct {
	Seq    int64
	Record T
}

func decode[T any](item map[string]awsv2types.AttributeValue) (storedRecord[T], error) {
	var out storedRecord[T]
	if err := attributevalue.UnmarshalMap(item, &out.Record); err != nil {
		return out, err
	}
	if n, ok := item["Seq"].(*awsv2types.AttributeValueMemberN); ok {
		out.Seq, _ = strconv.ParseInt(n.Value, 10, 64)
	}
	return out, nil
}

func (r *RecordRepository[T]) List(ctx context.Context) ([]T, error) {
	var stored []storedRecord[T]
	err := xray.Capture(ctx, "DynamoDB.Query"+r.collection, func(ctx context.Context) error {
		p := awsv2dynamodb.NewQueryPaginator(r.client.db, &awsv2dynamodb.QueryInput{
			TableName:              aws.String(r.client.tableName),
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
			ExpressionAttributeValues: map[string]awsv2types.AttributeValue{
				":pk": &awsv2types.AttributeValueMemberS{Value: collectionPK(r.collection)},
				":sk": &awsv2types.AttributeValueMemberS{Value: recordSKPrefix},
			},
		})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return err
			}
			for _, item := range page.Items {
				rec, err := decode[T](item)
				if err != nil {
					return err
				}
				stored = append(stored, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(stored, func(a, b storedRecord[T]) int { return cmp.Compare(a.Seq, b.Seq) })
	out := make([]T, 0, len(stored))
	for _, s := range stored {
		out = append(out, s.Record)
	}
	return out, nil
}

func (r *RecordRepository[T]) Create(ctx context.Context, record T) (T, error) {
	taken := map[string]bool{}
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		rec := record.WithID(r.ids.Next(func(id string) bool { return taken[id] }))
		err := r.put(ctx, rec, r.seq(), "attribute_not_exists(PK) AND attribute_not_exists(SK)")
		if err == nil {
			return rec, nil
		}
		if !isConditionalCheckFailure(err) {
			var zero T
			return zero, err
		}
		taken[rec.RecordID()] = true
	}
	var zero T
	return zero, fmt.Errorf("%w: no free id in %s after %d attempts", domain.ErrConflict, r.collection, maxCreateAttempts)
}

// Insert writes rec under its own id. Used for seeding.
func (r *RecordRepository[T]) Insert(ctx context.Context, rec T) error {
	if rec.RecordID() == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidInput)
	}
	err := r.put(ctx, rec, r.seq(), "attribute_not_exists(PK) AND attribute_not_exists(SK)")
	if isConditionalCheckFailure(err) {
		return fmt.Errorf("%w: id %s already exists", domain.ErrConflict, rec.RecordID())
	}
	return err
}

func (r *RecordRepository[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	var zero T
	var out *awsv2dynamodb.GetItemOutput
	err := xray.Capture(ctx, "DynamoDB.Get"+r.collection, func(ctx context.Context) error {
		var e error
		out, e = r.client.db.GetItem(ctx, &awsv2dynamodb.GetItemInput{
			TableName:      aws.String(r.client.tableName),
			Key:            r.key(id),
			ConsistentRead: aws.Bool(true),
		})
		return e
	})
	if err != nil {
		return zero, err
	}
	if out.Item == nil {
		return zero, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	current, err := decode[T](out.Item)
	if err != nil {
		return zero, err
	}
	updated := patch(current.Record).WithID(id)
	err = r.put(ctx, updated, current.Seq, "attribute_exists(PK)")
	if isConditionalCheckFailure(err) {
		return zero, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return zero, err
	}
	return updated, nil
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	return xray.Capture(ctx, "DynamoDB.Delete"+r.collection, func(ctx context.Context) error {
		_, err := r.client.db.DeleteItem(ctx, &awsv2dynamodb.DeleteItemInput{
			TableName:           aws.String(r.client.tableName),
			Key:                 r.key(id),
			ConditionExpression: aws.String("attribute_exists(PK)"),
		})
		if isConditionalCheckFailure(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return err
	})
}

func (r *RecordRepository[T]) put(ctx context.Context, rec T, seq int64, condition string) error {
	av, err := r.item(rec, seq)
	if err != nil {
		return err
	}
	return xray.Capture(ctx, "DynamoDB.Put"+r.collection, func(ctx context.Context) error {
		_, err := r.client.db.PutItem(ctx, &awsv2dynamodb.PutItemInput{
			TableName:           aws.String(r.client.tableName),
			Item:                av,
			ConditionExpression: aws.String(condition),
		})
		return err
	})
}
