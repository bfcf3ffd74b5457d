package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore persists to DynamoDB across three tables: users (with an
// email GSI), products, and carts keyed by user_id. Cart saves use a
// conditional write on the version attribute for optimistic locking.
type DynamoStore struct {
	client        *dynamodb.Client
	usersTable    string
	productsTable string
	cartsTable    string
}

var _ Interface = (*DynamoStore)(nil)

const emailIndex = "email-index"

func NewDynamoStore(client *dynamodb.Client, usersTable, productsTable, cartsTable string) *DynamoStore {
	return &DynamoStore{
		client:        client,
		usersTable:    usersTable,
		productsTable: productsTable,
		cartsTable:    cartsTable,
	}
}

type dynamoUser struct {
	ID           string `dynamodbav:"id"`
	Email        string `dynamodbav:"email"`
	PasswordHash string `dynamodbav:"password_hash"`
	FirstName    string `dynamodbav:"first_name"`
	LastName     string `dynamodbav:"last_name"`
	PhoneNumber  string `dynamodbav:"phone_number"`
	Address      string `dynamodbav:"address"`
	Role         string `dynamodbav:"role"`
	IsActive     bool   `dynamodbav:"is_active"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

func (s *DynamoStore) CreateUser(ctx context.Context, u *User) error {
	// The table is keyed by id, so email uniqueness is checked against
	// the GSI first. Registration volume makes the race window
	// acceptable for this backend.
	if _, err := s.GetUserByEmail(ctx, u.Email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	item := dynamoUser{
		ID:           u.ID,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format(timeFormat),
		UpdatedAt:    u.UpdatedAt.Format(timeFormat),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.usersTable),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *DynamoStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.usersTable),
		IndexName:              aws.String(emailIndex),
		KeyConditionExpression: aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, ErrUserNotFound
	}
	return unmarshalUser(out.Items[0])
}

func (s *DynamoStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.usersTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if out.Item == nil {
		return nil, ErrUserNotFound
	}
	return unmarshalUser(out.Item)
}

func unmarshalUser(item map[string]types.AttributeValue) (*User, error) {
	var du dynamoUser
	if err := attributevalue.UnmarshalMap(item, &du); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	u := User{
		ID:           du.ID,
		Email:        du.Email,
		PasswordHash: du.PasswordHash,
		FirstName:    du.FirstName,
		LastName:     du.LastName,
		PhoneNumber:  du.PhoneNumber,
		Address:      du.Address,
		Role:         du.Role,
		IsActive:     du.IsActive,
	}
	var err error
	if u.CreatedAt, err = parseTime(du.CreatedAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(du.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DynamoStore) PutProduct(ctx context.Context, p *Product) error {
	av, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.productsTable),
		Item:      av,
	})
	return err
}

func (s *DynamoStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.productsTable),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if out.Item == nil {
		return nil, ErrProductNotFound
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

func (s *DynamoStore) ListProducts(ctx context.Context) ([]Product, error) {
	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(s.productsTable),
	})
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	var products []Product
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}
	return products, nil
}

type dynamoCart struct {
	UserID    string     `dynamodbav:"user_id"`
	ID        string     `dynamodbav:"id"`
	Items     []CartItem `dynamodbav:"items"`
	Version   int        `dynamodbav:"version"`
	UpdatedAt string     `dynamodbav:"updated_at"`
}

func (s *DynamoStore) GetCart(ctx context.Context, userID string) (*Cart, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.cartsTable),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if out.Item == nil {
		return nil, ErrCartNotFound
	}
	var dc dynamoCart
	if err := attributevalue.UnmarshalMap(out.Item, &dc); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	c := Cart{ID: dc.ID, UserID: dc.UserID, Items: dc.Items, Version: dc.Version}
	if c.UpdatedAt, err = parseTime(dc.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *DynamoStore) SaveCart(ctx context.Context, c *Cart) error {
	item := dynamoCart{
		UserID:    c.UserID,
		ID:        c.ID,
		Items:     c.Items,
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt.Format(timeFormat),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	// Conditional write: accept only the first version of a cart or a
	// save derived from the currently stored version.
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.cartsTable),
		Item:                av,
		ConditionExpression:      aws.String("attribute_not_exists(user_id) OR #v = :prev"),
		ExpressionAttributeNames: map[string]string{"#v": "version"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prev": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", c.Version-1)},
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrVersionConflict
	}
	return err
}

func (s *DynamoStore) DeleteCart(ctx context.Context, userID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cartsTable),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	return err
}
