package repository

import (
	"context"
	"fmt"
	"time"

	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type orderLineItem struct {
	Kind            string `dynamodbav:"kind"`
	Description     string `dynamodbav:"description"`
	Quantity        int    `dynamodbav:"quantity"`
	UnitPrice       string `dynamodbav:"unit_price"`
	InventoryItemID string `dynamodbav:"inventory_item_id,omitempty"`
}

type serviceOrderItem struct {
	ID             string          `dynamodbav:"id"`
	ClientID       string          `dynamodbav:"client_id"`
	VehicleID      string          `dynamodbav:"vehicle_id"`
	Status         string          `dynamodbav:"status"`
	Items          []orderLineItem `dynamodbav:"items"`
	TotalValue     string          `dynamodbav:"total_value"`
	Observations   string          `dynamodbav:"observations,omitempty"`
	UserID         string          `dynamodbav:"user_id,omitempty"`
	CommittedParts map[string]int  `dynamodbav:"committed_parts"`
	CreatedAt      string          `dynamodbav:"created_at"`
	UpdatedAt      string          `dynamodbav:"updated_at"`
}

// ServiceOrderDynamoRepository persists ServiceOrder entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Line items are embedded in the order row.
type ServiceOrderDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IServiceOrderRepository = (*ServiceOrderDynamoRepository)(nil)

func NewServiceOrderDynamoRepository(ddb DynamoAPI, tableName string) *ServiceOrderDynamoRepository {
	return &ServiceOrderDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *ServiceOrderDynamoRepository) Create(ctx context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error) {
	av, err := attributevalue.MarshalMap(toServiceOrderItem(o))
	if err != nil {
		return entities.ServiceOrder{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	return o, nil
}

func (r *ServiceOrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.ServiceOrder, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if len(out.Item) == 0 {
		return entities.ServiceOrder{}, nil
	}

	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it)
}

func (r *ServiceOrderDynamoRepository) List(ctx context.Context) ([]entities.ServiceOrder, error) {
	rows, err := scanAll[serviceOrderItem](ctx, r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	return fromServiceOrderItems(rows)
}

// ListByCreatedAtRange returns orders created within [from, to].
func (r *ServiceOrderDynamoRepository) ListByCreatedAtRange(ctx context.Context, from, to time.Time) ([]entities.ServiceOrder, error) {
	rows, err := scanAll[serviceOrderItem](ctx, r.ddb, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#created_at BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#created_at": "created_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from": &types.AttributeValueMemberS{Value: formatTime(from)},
			":to":   &types.AttributeValueMemberS{Value: formatTime(to)},
		},
	})
	if err != nil {
		return nil, err
	}
	return fromServiceOrderItems(rows)
}

// Update rewrites every field but committed_parts, which only
// InventoryDynamoRepository.MoveForOrder may change.
func (r *ServiceOrderDynamoRepository) Update(ctx context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error) {
	it := toServiceOrderItem(o)
	items, err := attributevalue.Marshal(it.Items)
	if err != nil {
		return entities.ServiceOrder{}, err
	}

	return r.update(ctx, o.ID, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #client_id = :client_id, #vehicle_id = :vehicle_id, #status = :status, #items = :items, " +
			"#total_value = :total_value, #observations = :observations, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":client_id":    &types.AttributeValueMemberS{Value: it.ClientID},
			":vehicle_id":   &types.AttributeValueMemberS{Value: it.VehicleID},
			":status":       &types.AttributeValueMemberS{Value: it.Status},
			":items":        items,
			":total_value":  &types.AttributeValueMemberS{Value: it.TotalValue},
			":observations": &types.AttributeValueMemberS{Value: it.Observations},
			":updated_at":   &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#client_id":    "client_id",
			"#vehicle_id":   "vehicle_id",
			"#status":       "status",
			"#items":        "items",
			"#total_value":  "total_value",
			"#observations": "observations",
			"#updated_at":   "updated_at",
		}
		return expr, vals, names
	})
}

func (r *ServiceOrderDynamoRepository) Delete(ctx context.Context, id string) (entities.ServiceOrder, error) {
	out, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          idKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.ServiceOrder{}, nil
	}
	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it)
}

func (r *ServiceOrderDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.ServiceOrder, error) {
	now := formatTime(time.Now())
	updateExpr, values, names := build(now)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(id),
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.ServiceOrder{}, nil
		}
		return entities.ServiceOrder{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.ServiceOrder{}, nil
	}
	var it serviceOrderItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.ServiceOrder{}, err
	}
	return fromServiceOrderItem(it)
}

func toServiceOrderItem(o entities.ServiceOrder) serviceOrderItem {
	lines := make([]orderLineItem, 0, len(o.Items))
	for _, li := range o.Items {
		d := li.Details()
		row := orderLineItem{
			Kind:        string(li.Kind()),
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   formatDecimal(d.UnitPrice),
		}
		if p, ok := li.(entities.PartLine); ok {
			row.InventoryItemID = p.InventoryItemID
		}
		lines = append(lines, row)
	}
	committed := map[string]int{}
	for k, v := range o.CommittedParts {
		committed[k] = v
	}
	return serviceOrderItem{
		ID:             o.ID,
		ClientID:       o.ClientID,
		VehicleID:      o.VehicleID,
		Status:         string(o.Status),
		Items:          lines,
		TotalValue:     formatDecimal(o.TotalValue),
		Observations:   o.Observations,
		UserID:         o.UserID,
		CommittedParts: committed,
		CreatedAt:      formatTime(o.CreatedAt),
		UpdatedAt:      formatTime(o.UpdatedAt),
	}
}

func fromServiceOrderItem(it serviceOrderItem) (entities.ServiceOrder, error) {
	lines := make([]entities.LineItem, 0, len(it.Items))
	for i, row := range it.Items {
		kind, err := entities.ParseLineKind(row.Kind)
		if err != nil {
			return entities.ServiceOrder{}, fmt.Errorf("order %s item %d: %w", it.ID, i, err)
		}
		d := entities.LineDetails{
			Description: row.Description,
			Quantity:    row.Quantity,
			UnitPrice:   parseDecimal(row.UnitPrice),
		}
		if kind == entities.LineKindPeca {
			lines = append(lines, entities.PartLine{LineDetails: d, InventoryItemID: row.InventoryItemID})
		} else {
			lines = append(lines, entities.ServiceLine{LineDetails: d})
		}
	}
	committed := entities.StockCommitment{}
	for k, v := range it.CommittedParts {
		if v != 0 {
			committed[k] = v
		}
	}
	return entities.ServiceOrder{
		ID:             it.ID,
		ClientID:       it.ClientID,
		VehicleID:      it.VehicleID,
		Status:         entities.OrderStatus(it.Status),
		Items:          lines,
		TotalValue:     parseDecimal(it.TotalValue),
		Observations:   it.Observations,
		UserID:         it.UserID,
		CommittedParts: committed,
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}, nil
}

func fromServiceOrderItems(rows []serviceOrderItem) ([]entities.ServiceOrder, error) {
	out := make([]entities.ServiceOrder, 0, len(rows))
	for _, it := range rows {
		o, err := fromServiceOrderItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
