package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"travel-agent/internal/domain"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// ReadWriter defines the preference store operations consumed by the turn.
type ReadWriter interface {
	Get(ctx context.Context, ns domain.Namespace, key string) (domain.StoredPreferences, error)
	Put(ctx context.Context, ns domain.Namespace, key string, prefs domain.TravelPreferences) error
}

var _ ReadWriter = (*Client)(nil)

// Client wraps a DynamoDB table holding one preference record per
// (namespace, key).
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// namespacePK returns the partition key for a namespace, e.g.
// "travel_memory#u1".
func namespacePK(ns domain.Namespace) string {
	return ns.Category + "#" + ns.UserID
}

func validateKey(ns domain.Namespace, key string) error {
	if strings.TrimSpace(ns.Category) == "" || strings.TrimSpace(ns.UserID) == "" {
		return errors.New("namespace category and user id are required")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("key is required")
	}
	return nil
}

// Get reads the record stored under (ns, key). A missing item is not an
// error; it yields an absent record.
func (c *Client) Get(ctx context.Context, ns domain.Namespace, key string) (domain.StoredPreferences, error) {
	if err := validateKey(ns, key); err != nil {
		return domain.NoPreferences(), fmt.Errorf("repository: Get: %w", err)
	}
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: namespacePK(ns)},
			"SK": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.NoPreferences(), fmt.Errorf("repository: Get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.NoPreferences(), nil
	}

	prefs, err := itemToPreferences(out.Item)
	if err != nil {
		return domain.NoPreferences(), fmt.Errorf("repository: Get decode: %w", err)
	}
	return domain.SomePreferences(prefs), nil
}

// Put overwrites the record stored under (ns, key) as a whole.
func (c *Client) Put(ctx context.Context, ns domain.Namespace, key string, prefs domain.TravelPreferences) error {
	if err := validateKey(ns, key); err != nil {
		return fmt.Errorf("repository: Put: %w", err)
	}
	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      preferencesItem(ns, key, prefs, c.now().UTC()),
	})
	if err != nil {
		return fmt.Errorf("repository: Put: %w", err)
	}
	return nil
}

func preferencesItem(ns domain.Namespace, key string, prefs domain.TravelPreferences, updatedAt time.Time) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":                          &types.AttributeValueMemberS{Value: namespacePK(ns)},
		"SK":                          &types.AttributeValueMemberS{Value: key},
		"userId":                      &types.AttributeValueMemberS{Value: ns.UserID},
		"preferredAccommodationTypes": listValue(prefs.PreferredAccommodationTypes),
		"dietaryRestrictions":         listValue(prefs.DietaryRestrictions),
		"budgetRange":                 &types.AttributeValueMemberS{Value: prefs.BudgetRange},
		"visitedDestinations":         listValue(prefs.VisitedDestinations),
		"travelStyle":                 &types.AttributeValueMemberS{Value: prefs.TravelStyle},
		"updatedAt":                   &types.AttributeValueMemberS{Value: updatedAt.Format(time.RFC3339)},
	}
}

// itemToPreferences converts a DynamoDB attribute map to a record.
// List attributes are optional; string attributes must be present.
func itemToPreferences(item map[string]types.AttributeValue) (domain.TravelPreferences, error) {
	budget, err := strAttr(item, "budgetRange")
	if err != nil {
		return domain.TravelPreferences{}, err
	}
	style, err := strAttr(item, "travelStyle")
	if err != nil {
		return domain.TravelPreferences{}, err
	}
	accommodation, err := listAttr(item, "preferredAccommodationTypes")
	if err != nil {
		return domain.TravelPreferences{}, err
	}
	dietary, err := listAttr(item, "dietaryRestrictions")
	if err != nil {
		return domain.TravelPreferences{}, err
	}
	visited, err := listAttr(item, "visitedDestinations")
	if err != nil {
		return domain.TravelPreferences{}, err
	}
	return domain.TravelPreferences{
		PreferredAccommodationTypes: accommodation,
		DietaryRestrictions:         dietary,
		BudgetRange:                 budget,
		VisitedDestinations:         visited,
		TravelStyle:                 style,
	}, nil
}

func listValue(values []string) *types.AttributeValueMemberL {
	out := make([]types.AttributeValue, 0, len(values))
	for _, v := range values {
		out = append(out, &types.AttributeValueMemberS{Value: v})
	}
	return &types.AttributeValueMemberL{Value: out}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func listAttr(item map[string]types.AttributeValue, key string) ([]string, error) {
	v, ok := item[key]
	if !ok {
		return []string{}, nil
	}
	l, ok := v.(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("repository: attribute %q is not a list", key)
	}
	out := make([]string, 0, len(l.Value))
	for i, elem := range l.Value {
		s, ok := elem.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("repository: attribute %q element %d is not a string", key, i)
		}
		out = append(out, s.Value)
	}
	return out, nil
}
