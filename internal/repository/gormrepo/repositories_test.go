package gormrepo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUsersOrderedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	companies := NewCompanyRepository(db)
	users := NewUserRepository(db)

	company := domain.Company{Name: "Acme"}
	if err := companies.Create(ctx, &company); err != nil {
		t.Fatalf("create company: %v", err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"older", "newer"} {
		u := domain.User{Name: name, Role: domain.UserRoleDirector, CompanyID: company.ID, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := users.Create(ctx, &u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	other := domain.User{Name: "acct", Role: domain.UserRoleAccountant, CompanyID: company.ID}
	if err := users.Create(ctx, &other); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := users.ListByCompanyAndRole(ctx, company.ID, domain.UserRoleDirector)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "newer" {
		t.Fatalf("expected newer director first, got %+v", got)
	}
}

func TestGetByIDMissing(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewCompanyRepository(db).GetByID(context.Background(), 42)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveOpenByCompany(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	companies := NewCompanyRepository(db)
	users := NewUserRepository(db)
	tickets := NewTicketRepository(db)

	var ids [2]int64
	var assignees [2]int64
	for i, name := range []string{"A", "B"} {
		c := domain.Company{Name: name}
		if err := companies.Create(ctx, &c); err != nil {
			t.Fatalf("create company: %v", err)
		}
		u := domain.User{Name: "u" + name, Role: domain.UserRoleAccountant, CompanyID: c.ID}
		if err := users.Create(ctx, &u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		ids[i], assignees[i] = c.ID, u.ID
	}

	newTicket := func(company, assignee int64) domain.Ticket {
		tk := domain.Ticket{
			Type:       domain.TicketTypeManagementReport,
			Status:     domain.TicketStatusOpen,
			Category:   domain.TicketCategoryAccounting,
			CompanyID:  company,
			AssigneeID: assignee,
		}
		if err := tickets.Create(ctx, &tk); err != nil {
			t.Fatalf("create ticket: %v", err)
		}
		return tk
	}
	first := newTicket(ids[0], assignees[0])
	keep := newTicket(ids[0], assignees[0])
	foreign := newTicket(ids[1], assignees[1])

	n, err := tickets.ResolveOpenByCompany(ctx, ids[0], keep.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 resolved, got %d", n)
	}

	all, err := tickets.ListWithRelations(ctx)
	if err != nil {
		t.Fatalf("list relations: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(all))
	}
	for _, tk := range all {
		want := domain.TicketStatusOpen
		if tk.ID == first.ID {
			want = domain.TicketStatusResolved
		}
		if tk.Status != want {
			t.Fatalf("ticket %d: expected %s, got %s", tk.ID, want, tk.Status)
		}
	}
	last := all[2]
	if last.ID != foreign.ID || last.Company == nil || last.Company.Name != "B" || last.Assignee == nil || last.Assignee.Name != "uB" {
		t.Fatalf("relations not attached: %+v", last)
	}
}

func TestDeleteTicket(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	companies := NewCompanyRepository(db)
	users := NewUserRepository(db)
	tickets := NewTicketRepository(db)

	company := domain.Company{Name: "Acme"}
	if err := companies.Create(ctx, &company); err != nil {
		t.Fatalf("create company: %v", err)
	}
	user := domain.User{Name: "Ann", Role: domain.UserRoleDirector, CompanyID: company.ID}
	if err := users.Create(ctx, &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	tk := domain.Ticket{
		Type:       domain.TicketTypeStrikeOff,
		Status:     domain.TicketStatusOpen,
		Category:   domain.TicketCategoryManagement,
		CompanyID:  company.ID,
		AssigneeID: user.ID,
	}
	if err := tickets.Create(ctx, &tk); err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	if err := tickets.Delete(ctx, tk.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	left, err := tickets.ListWithFilter(ctx, repository.TicketFilter{CompanyID: &company.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected no tickets, got %+v", left)
	}
	if err := tickets.Delete(ctx, tk.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
