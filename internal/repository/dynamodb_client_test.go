package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"travel-agent/internal/domain"
)

type fakeDynamo struct {
	getOut       *dynamodb.GetItemOutput
	getErr       error
	putErr       error
	lastGetInput *dynamodb.GetItemInput
	lastPutInput *dynamodb.PutItemInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPutInput = in
	return &dynamodb.PutItemOutput{}, f.putErr
}

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "test-table")
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return c
}

func strList(values ...string) *types.AttributeValueMemberL {
	return listValue(values)
}

func makePrefsItem() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":                          &types.AttributeValueMemberS{Value: "travel_memory#u1"},
		"SK":                          &types.AttributeValueMemberS{Value: "travel_prefs"},
		"preferredAccommodationTypes": strList("boutique"),
		"dietaryRestrictions":         strList("vegetarian"),
		"budgetRange":                 &types.AttributeValueMemberS{Value: "$100-200"},
		"visitedDestinations":         strList("Paris", "Tokyo"),
		"travelStyle":                 &types.AttributeValueMemberS{Value: "backpacking"},
	}
}

var ns = domain.PreferencesNamespace("u1")

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, "t")
	require.Error(t, err)

	_, err = New(&fakeDynamo{}, " ")
	require.Error(t, err)
}

func TestGet_HappyPath(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: makePrefsItem()}}
	c := mustNewClient(t, db)

	got, err := c.Get(context.Background(), ns, domain.PreferencesKey)
	require.NoError(t, err)
	prefs, ok := got.Value()
	require.True(t, ok)
	require.Equal(t, domain.TravelPreferences{
		PreferredAccommodationTypes: []string{"boutique"},
		DietaryRestrictions:         []string{"vegetarian"},
		BudgetRange:                 "$100-200",
		VisitedDestinations:         []string{"Paris", "Tokyo"},
		TravelStyle:                 "backpacking",
	}, prefs)

	require.NotNil(t, db.lastGetInput)
	require.Equal(t, "test-table", *db.lastGetInput.TableName)
	require.True(t, *db.lastGetInput.ConsistentRead)
	require.Equal(t, "travel_memory#u1", db.lastGetInput.Key["PK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "travel_prefs", db.lastGetInput.Key["SK"].(*types.AttributeValueMemberS).Value)
}

func TestGet_MissingItem(t *testing.T) {
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{}}
	c := mustNewClient(t, db)

	got, err := c.Get(context.Background(), ns, domain.PreferencesKey)
	require.NoError(t, err)
	require.False(t, got.Present())
}

func TestGet_MissingListsDefaultToEmpty(t *testing.T) {
	item := makePrefsItem()
	delete(item, "dietaryRestrictions")
	db := &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}}
	c := mustNewClient(t, db)

	got, err := c.Get(context.Background(), ns, domain.PreferencesKey)
	require.NoError(t, err)
	prefs, ok := got.Value()
	require.True(t, ok)
	require.NotNil(t, prefs.DietaryRestrictions)
	require.Empty(t, prefs.DietaryRestrictions)
}

func TestGet_GetItemError(t *testing.T) {
	db := &fakeDynamo{getErr: errors.New("boom")}
	c := mustNewClient(t, db)

	_, err := c.Get(context.Background(), ns, domain.PreferencesKey)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Get item")
	require.ErrorContains(t, err, "boom")
}

func TestGet_MalformedItem(t *testing.T) {
	cases := map[string]func(map[string]types.AttributeValue){
		"missing budget": func(item map[string]types.AttributeValue) { delete(item, "budgetRange") },
		"style not string": func(item map[string]types.AttributeValue) {
			item["travelStyle"] = &types.AttributeValueMemberN{Value: "1"}
		},
		"visited not list": func(item map[string]types.AttributeValue) {
			item["visitedDestinations"] = &types.AttributeValueMemberS{Value: "Paris"}
		},
		"list element not string": func(item map[string]types.AttributeValue) {
			item["visitedDestinations"] = &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberN{Value: "3"},
			}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			item := makePrefsItem()
			mutate(item)
			c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: item}})
			_, err := c.Get(context.Background(), ns, domain.PreferencesKey)
			require.Error(t, err)
			require.Contains(t, err.Error(), "Get decode")
		})
	}
}

func TestGet_InvalidKey(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	_, err := c.Get(context.Background(), domain.PreferencesNamespace(""), domain.PreferencesKey)
	require.Error(t, err)

	_, err = c.Get(context.Background(), ns, "")
	require.Error(t, err)
	require.Nil(t, db.lastGetInput)
}

func TestPut_HappyPath(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	err := c.Put(context.Background(), ns, domain.PreferencesKey, domain.TravelPreferences{
		DietaryRestrictions: []string{"vegetarian"},
		VisitedDestinations: []string{"Paris"},
		BudgetRange:         "$100-200",
	})
	require.NoError(t, err)
	require.NotNil(t, db.lastPutInput)

	item := db.lastPutInput.Item
	require.Equal(t, "travel_memory#u1", item["PK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "travel_prefs", item["SK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "u1", item["userId"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "2026-10-15T09:00:00Z", item["updatedAt"].(*types.AttributeValueMemberS).Value)
	require.Empty(t, item["preferredAccommodationTypes"].(*types.AttributeValueMemberL).Value)

	// the written item must decode back to the same record
	back, err := itemToPreferences(item)
	require.NoError(t, err)
	require.Equal(t, []string{"Paris"}, back.VisitedDestinations)
	require.Equal(t, []string{"vegetarian"}, back.DietaryRestrictions)
	require.Equal(t, "$100-200", back.BudgetRange)
}

func TestPut_Error(t *testing.T) {
	db := &fakeDynamo{putErr: errors.New("throttled")}
	c := mustNewClient(t, db)

	err := c.Put(context.Background(), ns, domain.PreferencesKey, domain.TravelPreferences{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "repository: Put")
	require.ErrorContains(t, err, "throttled")
}
