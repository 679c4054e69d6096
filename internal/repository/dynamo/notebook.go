package dynamo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const requestTimeout = 5 * time.Second

// TableClient is the subset of the DynamoDB API the repository uses.
type TableClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// NotebookRepository implements the notebook store on a DynamoDB table keyed
// by notebook id.
type NotebookRepository struct {
	client TableClient
	table  string
	logger *slog.Logger
}

// NewNotebookRepository creates a repository bound to one table.
func NewNotebookRepository(client TableClient, table string, logger *slog.Logger) *NotebookRepository {
	return &NotebookRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

var _ repositories.NotebookRepository = (*NotebookRepository)(nil)

// FindByID retrieves one notebook.
func (r *NotebookRepository) FindByID(ctx context.Context, id string) (*models.Notebook, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       notebookKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get notebook: %v", domain.ErrDependency, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notebook %s: %w", id, domain.ErrNotFound)
	}

	var notebook models.Notebook
	if err := attributevalue.UnmarshalMap(out.Item, &notebook); err != nil {
		return nil, fmt.Errorf("unmarshal notebook: %w", err)
	}
	return &notebook, nil
}

// FindByOwner retrieves the owner's notebooks plus public ones.
func (r *NotebookRepository) FindByOwner(ctx context.Context, ownerSubject string) ([]models.Notebook, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.table),
		FilterExpression: aws.String("#owner = :owner OR #public = :true"),
		ExpressionAttributeNames: map[string]string{
			"#owner":  "owner",
			"#public": "public",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerSubject},
			":true":  &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan notebooks: %v", domain.ErrDependency, err)
	}

	notebooks := make([]models.Notebook, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &notebooks); err != nil {
		return nil, fmt.Errorf("unmarshal notebooks: %w", err)
	}

	r.logger.Debug("notebooks scanned", "count", len(notebooks), "owner", ownerSubject)
	return notebooks, nil
}

// Save stores a new notebook.
func (r *NotebookRepository) Save(ctx context.Context, notebook *models.Notebook) error {
	item, err := attributevalue.MarshalMap(notebook)
	if err != nil {
		return fmt.Errorf("marshal notebook: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("%w: put notebook: %v", domain.ErrDependency, err)
	}
	return nil
}

// Update replaces a notebook's name and content, keeping owner and
// visibility of the stored item.
func (r *NotebookRepository) Update(ctx context.Context, notebook *models.Notebook) error {
	existing, err := r.FindByID(ctx, notebook.ID)
	if err != nil {
		return err
	}

	existing.Name = notebook.Name
	existing.Content = notebook.Content
	if err := r.Save(ctx, existing); err != nil {
		return err
	}

	*notebook = *existing
	return nil
}

// Delete removes a notebook. Absent ids are ignored.
func (r *NotebookRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       notebookKey(id),
	}); err != nil {
		return fmt.Errorf("%w: delete notebook: %v", domain.ErrDependency, err)
	}
	return nil
}

func notebookKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
