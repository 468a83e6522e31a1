package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type inventoryItem struct {
	ID           string `dynamodbav:"id"`
	Name         string `dynamodbav:"name"`
	CurrentStock int    `dynamodbav:"current_stock"`
	MinimumStock int    `dynamodbav:"minimum_stock"`
	CostPrice    string `dynamodbav:"cost_price"`
	SalePrice    string `dynamodbav:"sale_price"`
	CategoryID   string `dynamodbav:"category_id,omitempty"`
	SupplierID   string `dynamodbav:"supplier_id,omitempty"`
	UserID       string `dynamodbav:"user_id,omitempty"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

// InventoryDynamoRepository persists InventoryItem entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// current_stock is a number attribute changed only through ADD so concurrent
// movements are applied by the table, not by the caller. ordersTable is the
// service order table whose committed_parts MoveForOrder keeps in step.
type InventoryDynamoRepository struct {
	ddb         DynamoAPI
	tableName   string
	ordersTable string
}

var _ interfaces.IInventoryRepository = (*InventoryDynamoRepository)(nil)

func NewInventoryDynamoRepository(ddb DynamoAPI, tableName, ordersTable string) *InventoryDynamoRepository {
	return &InventoryDynamoRepository{ddb: ddb, tableName: tableName, ordersTable: ordersTable}
}

func (r *InventoryDynamoRepository) Create(ctx context.Context, item entities.InventoryItem) (entities.InventoryItem, error) {
	av, err := attributevalue.MarshalMap(toInventoryItem(item))
	if err != nil {
		return entities.InventoryItem{}, err
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
		return entities.InventoryItem{}, err
	}
	return item, nil
}

func (r *InventoryDynamoRepository) GetByID(ctx context.Context, id string) (entities.InventoryItem, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.InventoryItem{}, err
	}
	return decodeInventoryItem(out.Item)
}

func (r *InventoryDynamoRepository) List(ctx context.Context) ([]entities.InventoryItem, error) {
	rows, err := scanAll[inventoryItem](ctx, r.ddb, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	items := make([]entities.InventoryItem, 0, len(rows))
	for _, it := range rows {
		items = append(items, fromInventoryItem(it))
	}
	return items, nil
}

// Update writes the descriptive fields and prices; current_stock is left alone.
func (r *InventoryDynamoRepository) Update(ctx context.Context, item entities.InventoryItem) (entities.InventoryItem, error) {
	it := toInventoryItem(item)
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(item.ID),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression: aws.String("SET #name = :name, #minimum_stock = :minimum_stock, #cost_price = :cost_price, " +
			"#sale_price = :sale_price, #category_id = :category_id, #supplier_id = :supplier_id, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":            "id",
			"#name":          "name",
			"#minimum_stock": "minimum_stock",
			"#cost_price":    "cost_price",
			"#sale_price":    "sale_price",
			"#category_id":   "category_id",
			"#supplier_id":   "supplier_id",
			"#updated_at":    "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":          &types.AttributeValueMemberS{Value: it.Name},
			":minimum_stock": &types.AttributeValueMemberN{Value: strconv.Itoa(it.MinimumStock)},
			":cost_price":    &types.AttributeValueMemberS{Value: it.CostPrice},
			":sale_price":    &types.AttributeValueMemberS{Value: it.SalePrice},
			":category_id":   &types.AttributeValueMemberS{Value: it.CategoryID},
			":supplier_id":   &types.AttributeValueMemberS{Value: it.SupplierID},
			":updated_at":    &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.InventoryItem{}, nil
		}
		return entities.InventoryItem{}, err
	}
	return decodeInventoryItem(out.Attributes)
}

func (r *InventoryDynamoRepository) Delete(ctx context.Context, id string) (entities.InventoryItem, error) {
	out, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          idKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return entities.InventoryItem{}, err
	}
	return decodeInventoryItem(out.Attributes)
}

// DecrementStock subtracts quantity in a single conditional ADD. Unless
// allowNegative is set the condition also requires current_stock >= quantity.
// On a failed condition the old item tells a missing row from a short one.
func (r *InventoryDynamoRepository) DecrementStock(ctx context.Context, id string, quantity int, allowNegative bool) (entities.InventoryItem, error) {
	cond := "attribute_exists(#id)"
	values := map[string]types.AttributeValue{
		":delta":      &types.AttributeValueMemberN{Value: strconv.Itoa(-quantity)},
		":updated_at": &types.AttributeValueMemberS{Value: formatTime(time.Now())},
	}
	if !allowNegative {
		cond += " AND #current_stock >= :qty"
		values[":qty"] = &types.AttributeValueMemberN{Value: strconv.Itoa(quantity)}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(id),
		ConditionExpression: aws.String(cond),
		UpdateExpression:    aws.String("SET #updated_at = :updated_at ADD #current_stock :delta"),
		ExpressionAttributeNames: map[string]string{
			"#id":            "id",
			"#current_stock": "current_stock",
			"#updated_at":    "updated_at",
		},
		ExpressionAttributeValues:           values,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			if len(cfe.Item) == 0 {
				return entities.InventoryItem{}, nil
			}
			return entities.InventoryItem{}, interfaces.ErrInsufficientStock
		}
		return entities.InventoryItem{}, err
	}
	return decodeInventoryItem(out.Attributes)
}

// IncrementStock adds quantity back to current_stock.
func (r *InventoryDynamoRepository) IncrementStock(ctx context.Context, id string, quantity int) (entities.InventoryItem, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #updated_at = :updated_at ADD #current_stock :delta"),
		ExpressionAttributeNames: map[string]string{
			"#id":            "id",
			"#current_stock": "current_stock",
			"#updated_at":    "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta":      &types.AttributeValueMemberN{Value: strconv.Itoa(quantity)},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(time.Now())},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.InventoryItem{}, nil
		}
		return entities.InventoryItem{}, err
	}
	return decodeInventoryItem(out.Attributes)
}

// MoveForOrder writes the stock change and the order's committed quantity in
// one transaction. The order update is conditioned on committed_parts still
// holding m.From for the item, so two saves computed from the same order
// state cannot both move the shelf.
func (r *InventoryDynamoRepository) MoveForOrder(ctx context.Context, m entities.StockMovement, allowNegative bool) (entities.InventoryItem, error) {
	qty := m.Quantity()
	now := formatTime(time.Now())

	stockCond := "attribute_exists(#id)"
	stockValues := map[string]types.AttributeValue{
		":delta":      &types.AttributeValueMemberN{Value: strconv.Itoa(-qty)},
		":updated_at": &types.AttributeValueMemberS{Value: now},
	}
	if qty > 0 && !allowNegative {
		stockCond += " AND #current_stock >= :qty"
		stockValues[":qty"] = &types.AttributeValueMemberN{Value: strconv.Itoa(qty)}
	}

	orderCond := "attribute_exists(#id) AND #committed.#item = :from"
	if m.From == 0 {
		orderCond = "attribute_exists(#id) AND (attribute_not_exists(#committed.#item) OR #committed.#item = :from)"
	}

	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:           aws.String(r.tableName),
				Key:                 idKey(m.InventoryItemID),
				ConditionExpression: aws.String(stockCond),
				UpdateExpression:    aws.String("SET #updated_at = :updated_at ADD #current_stock :delta"),
				ExpressionAttributeNames: map[string]string{
					"#id":            "id",
					"#current_stock": "current_stock",
					"#updated_at":    "updated_at",
				},
				ExpressionAttributeValues:           stockValues,
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			}},
			{Update: &types.Update{
				TableName:           aws.String(r.ordersTable),
				Key:                 idKey(m.OrderID),
				ConditionExpression: aws.String(orderCond),
				UpdateExpression:    aws.String("SET #committed.#item = :to, #updated_at = :updated_at"),
				ExpressionAttributeNames: map[string]string{
					"#id":         "id",
					"#committed":  "committed_parts",
					"#item":       m.InventoryItemID,
					"#updated_at": "updated_at",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":from":       &types.AttributeValueMemberN{Value: strconv.Itoa(m.From)},
					":to":         &types.AttributeValueMemberN{Value: strconv.Itoa(m.To)},
					":updated_at": &types.AttributeValueMemberS{Value: now},
				},
			}},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			reasons := tce.CancellationReasons
			if len(reasons) > 0 && conditionFailed(reasons[0]) {
				if len(reasons[0].Item) == 0 {
					return entities.InventoryItem{}, nil
				}
				return entities.InventoryItem{}, interfaces.ErrInsufficientStock
			}
			if len(reasons) > 1 && conditionFailed(reasons[1]) {
				return entities.InventoryItem{}, interfaces.ErrCommitmentChanged
			}
		}
		return entities.InventoryItem{}, err
	}
	return r.GetByID(ctx, m.InventoryItemID)
}

func conditionFailed(reason types.CancellationReason) bool {
	return aws.ToString(reason.Code) == "ConditionalCheckFailed"
}

func decodeInventoryItem(av map[string]types.AttributeValue) (entities.InventoryItem, error) {
	if len(av) == 0 {
		return entities.InventoryItem{}, nil
	}
	var it inventoryItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.InventoryItem{}, err
	}
	return fromInventoryItem(it), nil
}

func toInventoryItem(i entities.InventoryItem) inventoryItem {
	return inventoryItem{
		ID:           i.ID,
		Name:         i.Name,
		CurrentStock: i.CurrentStock,
		MinimumStock: i.MinimumStock,
		CostPrice:    formatDecimal(i.CostPrice),
		SalePrice:    formatDecimal(i.SalePrice),
		CategoryID:   i.CategoryID,
		SupplierID:   i.SupplierID,
		UserID:       i.UserID,
		CreatedAt:    formatTime(i.CreatedAt),
		UpdatedAt:    formatTime(i.UpdatedAt),
	}
}

func fromInventoryItem(it inventoryItem) entities.InventoryItem {
	return entities.InventoryItem{
		ID:           it.ID,
		Name:         it.Name,
		CurrentStock: it.CurrentStock,
		MinimumStock: it.MinimumStock,
		CostPrice:    parseDecimal(it.CostPrice),
		SalePrice:    parseDecimal(it.SalePrice),
		CategoryID:   it.CategoryID,
		SupplierID:   it.SupplierID,
		UserID:       it.UserID,
		CreatedAt:    parseTime(it.CreatedAt),
		UpdatedAt:    parseTime(it.UpdatedAt),
	}
}
