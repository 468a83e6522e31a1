package database

import (
	"context"
	"errors"
	"fmt"

	"gestao_oficina/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

// Secondary index names the repositories query.
const (
	ClientIDIndex = "client_id-index"
	EmailIndex    = "email-index"
	OrderIDIndex  = "order_id-index"
)

// Tables names every table the application uses.
type Tables struct {
	Clients       string
	Vehicles      string
	Inventory     string
	ServiceOrders string
	Users         string
	Payments      string
}

type TableCreator interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// EnsureTables creates any missing table. Tables that already exist are left
// untouched.
func EnsureTables(ctx context.Context, api TableCreator, t Tables) error {
	log := logger.For("database", "provisioning")

	for _, in := range tableDefinitions(t) {
		name := aws.ToString(in.TableName)
		if name == "" {
			continue
		}
		_, err := api.CreateTable(ctx, in)
		var inUse *types.ResourceInUseException
		switch {
		case errors.As(err, &inUse):
			log.WithField("table", name).Debug("table already exists")
		case err != nil:
			return fmt.Errorf("create table %s: %w", name, err)
		default:
			log.WithFields(logrus.Fields{"table": name}).Info("table created")
		}
	}
	return nil
}

func tableDefinitions(t Tables) []*dynamodb.CreateTableInput {
	return []*dynamodb.CreateTableInput{
		simpleTable(t.Clients),
		withIndex(simpleTable(t.Vehicles), ClientIDIndex, "client_id"),
		simpleTable(t.Inventory),
		simpleTable(t.ServiceOrders),
		withIndex(simpleTable(t.Users), EmailIndex, "email"),
		withIndex(simpleTable(t.Payments), OrderIDIndex, "order_id"),
	}
}

func simpleTable(name string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
	}
}

func withIndex(in *dynamodb.CreateTableInput, index, attr string) *dynamodb.CreateTableInput {
	in.AttributeDefinitions = append(in.AttributeDefinitions, types.AttributeDefinition{
		AttributeName: aws.String(attr),
		AttributeType: types.ScalarAttributeTypeS,
	})
	in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
		IndexName: aws.String(index),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attr), KeyType: types.KeyTypeHash},
		},
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	})
	return in
}
