package usecase

import (
	"context"
	"gestao_oficina/internal/domain/entities"
	"gestao_oficina/internal/usecase/interfaces"
	"gestao_oficina/pkg/logger"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ClientInput struct {
	Name   string
	Email  string
	Phone  string
	Status string
	UserID string
}

type VehicleInput struct {
	ClientID     string
	LicensePlate string
	Make         string
	Model        string
	Year         int
	UserID       string
}

// IClientUseCase covers the client and vehicle records orders refer to.
type IClientUseCase interface {
	CreateClient(ctx context.Context, in ClientInput) (entities.Client, error)
	GetClient(ctx context.Context, id string) (entities.Client, error)
	ListClients(ctx context.Context) ([]entities.Client, error)
	CreateVehicle(ctx context.Context, in VehicleInput) (entities.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (entities.Vehicle, error)
	ListVehicles(ctx context.Context) ([]entities.Vehicle, error)
	ListClientVehicles(ctx context.Context, clientID string) ([]entities.Vehicle, error)
}

type ClientUseCase struct {
	clients  interfaces.IClientRepository
	vehicles interfaces.IVehicleRepository
}

var _ IClientUseCase = (*ClientUseCase)(nil)

func NewClientUseCase(clients interfaces.IClientRepository, vehicles interfaces.IVehicleRepository) *ClientUseCase {
	return &ClientUseCase{clients: clients, vehicles: vehicles}
}

func (u *ClientUseCase) CreateClient(ctx context.Context, in ClientInput) (entities.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return entities.Client{}, ErrInvalidClientName
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = "ativo"
	}
	c := entities.Client{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Status:    status,
		UserID:    in.UserID,
		CreatedAt: time.Now().UTC(),
	}
	created, err := u.clients.Create(ctx, c)
	if err != nil {
		logger.For("client", "usecase").WithError(err).Error("create failed")
		return entities.Client{}, storeErr("create client", err)
	}
	return created, nil
}

func (u *ClientUseCase) GetClient(ctx context.Context, id string) (entities.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Client{}, ErrInvalidClientID
	}
	c, err := u.clients.GetByID(ctx, id)
	if err != nil {
		return entities.Client{}, storeErr("get client", err)
	}
	if c.ID == "" {
		return entities.Client{}, ErrClientNotFound
	}
	return c, nil
}

// ListClients returns clients ordered by name.
func (u *ClientUseCase) ListClients(ctx context.Context) ([]entities.Client, error) {
	list, err := u.clients.List(ctx)
	if err != nil {
		return nil, storeErr("list clients", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (u *ClientUseCase) CreateVehicle(ctx context.Context, in VehicleInput) (entities.Vehicle, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return entities.Vehicle{}, ErrInvalidClientID
	}
	plate := strings.ToUpper(strings.TrimSpace(in.LicensePlate))
	if plate == "" || strings.TrimSpace(in.Make) == "" || strings.TrimSpace(in.Model) == "" {
		return entities.Vehicle{}, ErrInvalidVehicleData
	}
	if _, err := u.GetClient(ctx, clientID); err != nil {
		return entities.Vehicle{}, err
	}

	v := entities.Vehicle{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		LicensePlate: plate,
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Year:         in.Year,
		UserID:       in.UserID,
		CreatedAt:    time.Now().UTC(),
	}
	created, err := u.vehicles.Create(ctx, v)
	if err != nil {
		logger.For("vehicle", "usecase").WithError(err).WithField("client_id", clientID).Error("create failed")
		return entities.Vehicle{}, storeErr("create vehicle", err)
	}
	return created, nil
}

func (u *ClientUseCase) GetVehicle(ctx context.Context, id string) (entities.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Vehicle{}, ErrInvalidVehicleID
	}
	v, err := u.vehicles.GetByID(ctx, id)
	if err != nil {
		return entities.Vehicle{}, storeErr("get vehicle", err)
	}
	if v.ID == "" {
		return entities.Vehicle{}, ErrVehicleNotFound
	}
	return v, nil
}

func (u *ClientUseCase) ListVehicles(ctx context.Context) ([]entities.Vehicle, error) {
	list, err := u.vehicles.List(ctx)
	if err != nil {
		return nil, storeErr("list vehicles", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].LicensePlate < list[j].LicensePlate })
	return list, nil
}

func (u *ClientUseCase) ListClientVehicles(ctx context.Context, clientID string) ([]entities.Vehicle, error) {
	if _, err := u.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	list, err := u.vehicles.ListByClientID(ctx, strings.TrimSpace(clientID))
	if err != nil {
		return nil, storeErr("list client vehicles", err)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].LicensePlate < list[j].LicensePlate })
	return list, nil
}
