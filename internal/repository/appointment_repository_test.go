package repository_test

import (
	"github.com/bluclinic/appointment-service/internal/repository"
	"github.com/bluclinic/appointment-service/internal/service"
)

// The Postgres repository is exercised against a real database; here we
// only pin the contract it must satisfy.
var _ service.AppointmentStore = (*repository.AppointmentRepository)(nil)
