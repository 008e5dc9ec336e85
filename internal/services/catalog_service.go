package services

import (
	"github.com/kstobd/DriveNext/internal/domain"
	"github.com/kstobd/DriveNext/internal/repos"
)

type CatalogService struct {
	Cars *repos.CarRepo
}

func NewCatalogService(cars *repos.CarRepo) *CatalogService {
	return &CatalogService{Cars: cars}
}

func (s *CatalogService) GetCar(id string) (domain.Car, error) {
	return s.Cars.Get(id)
}

func (s *CatalogService) ListCars() ([]domain.Car, error) {
	return s.Cars.List()
}

func (s *CatalogService) ListAvailableCars() ([]domain.Car, error) {
	return s.Cars.ListAvailable()
}

func (s *CatalogService) CreateCar(c domain.Car) error {
	return s.Cars.Create(c)
}

func (s *CatalogService) UpdateCar(c domain.Car) error {
	return s.Cars.Update(c)
}

func (s *CatalogService) DeleteCar(id string) error {
	return s.Cars.Delete(id)
}
