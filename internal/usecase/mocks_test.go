package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tablehive/backoffice/internal/core/domain"
	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/repository"
)

// Shared hand-written mocks for usecase tests.

type txMock struct {
	calls int
}

func (m *txMock) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type roleRepoMock struct {
	roles     map[string]domain.Role
	createErr error
	updateErr error
	deleteErr error
}

func newRoleRepoMock(roles ...domain.Role) *roleRepoMock {
	m := &roleRepoMock{roles: make(map[string]domain.Role)}
	for _, role := range roles {
		m.roles[role.ID] = role
	}
	return m
}

func (m *roleRepoMock) Create(_ context.Context, role domain.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := m.roles[id]; ok && role.DeletedAt == nil {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) GetByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range m.roles {
		if role.Name == name && role.DeletedAt == nil {
			return &role, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) List(_ context.Context, _ port.ListQuery) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		if role.DeletedAt == nil {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (m *roleRepoMock) Count(ctx context.Context, query port.ListQuery) (int, error) {
	roles, _ := m.List(ctx, query)
	return len(roles), nil
}

func (m *roleRepoMock) CountAll(ctx context.Context) (int, error) {
	return m.Count(ctx, port.ListQuery{})
}

func (m *roleRepoMock) Update(_ context.Context, role domain.Role) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) SoftDelete(_ context.Context, id string, at time.Time) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	role, ok := m.roles[id]
	if !ok || role.DeletedAt != nil {
		return repository.ErrNotFound
	}
	role.DeletedAt = &at
	m.roles[id] = role
	return nil
}

type menuRepoMock struct {
	menus []domain.Menu
}

func (m *menuRepoMock) List(_ context.Context) ([]domain.Menu, error) {
	return m.menus, nil
}

func (m *menuRepoMock) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	known := make(map[string]struct{}, len(m.menus))
	for _, menu := range m.menus {
		known[menu.ID] = struct{}{}
	}
	existing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

type grantKey struct {
	roleMenuID string
	actionID   string
}

type permissionRepoMock struct {
	roleMenus map[string]domain.RoleMenu
	grants    map[grantKey]bool
	actions   map[string]domain.SpecificAction
	nextID    int
}

func newPermissionRepoMock() *permissionRepoMock {
	return &permissionRepoMock{
		roleMenus: make(map[string]domain.RoleMenu),
		grants:    make(map[grantKey]bool),
		actions:   make(map[string]domain.SpecificAction),
	}
}

func (m *permissionRepoMock) addAction(id, name string) {
	m.actions[name] = domain.SpecificAction{ID: id, Name: name}
}

func (m *permissionRepoMock) GetRoleMenu(_ context.Context, roleID, menuID string) (*domain.RoleMenu, error) {
	for _, rm := range m.roleMenus {
		if rm.RoleID == roleID && rm.MenuID == menuID {
			return &rm, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) ListRoleMenus(_ context.Context, roleID string) ([]domain.RoleMenu, error) {
	result := make([]domain.RoleMenu, 0)
	for _, rm := range m.roleMenus {
		if rm.RoleID == roleID {
			result = append(result, rm)
		}
	}
	return result, nil
}

func (m *permissionRepoMock) ListGrants(_ context.Context, roleMenuID string) ([]port.SpecificGrant, error) {
	result := make([]port.SpecificGrant, 0)
	for key, granted := range m.grants {
		if key.roleMenuID != roleMenuID {
			continue
		}
		for _, action := range m.actions {
			if action.ID == key.actionID {
				result = append(result, port.SpecificGrant{ActionName: action.Name, Granted: granted})
			}
		}
	}
	return result, nil
}

func (m *permissionRepoMock) UpsertBase(_ context.Context, roleID, menuID string, flags domain.CRUDFlags) (string, error) {
	for id, rm := range m.roleMenus {
		if rm.RoleID == roleID && rm.MenuID == menuID {
			rm.CanView, rm.CanCreate, rm.CanUpdate, rm.CanDelete = flags.View, flags.Create, flags.Update, flags.Delete
			m.roleMenus[id] = rm
			return id, nil
		}
	}
	m.nextID++
	id := fmt.Sprintf("rm-%d", m.nextID)
	m.roleMenus[id] = domain.RoleMenu{
		ID:        id,
		RoleID:    roleID,
		MenuID:    menuID,
		CanView:   flags.View,
		CanCreate: flags.Create,
		CanUpdate: flags.Update,
		CanDelete: flags.Delete,
	}
	return id, nil
}

func (m *permissionRepoMock) UpsertGrant(_ context.Context, roleMenuID, actionID string, granted bool) error {
	m.grants[grantKey{roleMenuID: roleMenuID, actionID: actionID}] = granted
	return nil
}

func (m *permissionRepoMock) ReplaceMenus(ctx context.Context, roleID string, menuIDs []string) error {
	for id, rm := range m.roleMenus {
		if rm.RoleID == roleID {
			for key := range m.grants {
				if key.roleMenuID == id {
					delete(m.grants, key)
				}
			}
			delete(m.roleMenus, id)
		}
	}
	for _, menuID := range menuIDs {
		if _, err := m.UpsertBase(ctx, roleID, menuID, domain.CRUDFlags{}); err != nil {
			return err
		}
	}
	return nil
}

func (m *permissionRepoMock) GetActionByName(_ context.Context, name string) (*domain.SpecificAction, error) {
	if action, ok := m.actions[name]; ok {
		return &action, nil
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) ListActions(_ context.Context) ([]domain.SpecificAction, error) {
	result := make([]domain.SpecificAction, 0, len(m.actions))
	for _, action := range m.actions {
		result = append(result, action)
	}
	return result, nil
}

type auditRepoMock struct {
	entries   []domain.AuditLog
	insertErr error
}

func (m *auditRepoMock) Insert(_ context.Context, entry domain.AuditLog) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *auditRepoMock) List(_ context.Context, _ port.ListQuery) ([]domain.AuditLog, error) {
	return m.entries, nil
}

func (m *auditRepoMock) Count(_ context.Context, _ port.ListQuery) (int, error) {
	return len(m.entries), nil
}

func (m *auditRepoMock) CountAll(_ context.Context) (int, error) {
	return len(m.entries), nil
}

type publisherMock struct {
	events     []domain.AuditRecordedEvent
	publishErr error
}

func (m *publisherMock) PublishAuditRecorded(_ context.Context, event domain.AuditRecordedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.events = append(m.events, event)
	return nil
}

type statusRepoMock struct {
	statuses map[string]domain.Status
}

func newStatusRepoMock(statuses ...domain.Status) *statusRepoMock {
	m := &statusRepoMock{statuses: make(map[string]domain.Status)}
	for _, status := range statuses {
		m.statuses[status.ID] = status
	}
	return m
}

func (m *statusRepoMock) GetByID(_ context.Context, id string) (*domain.Status, error) {
	if status, ok := m.statuses[id]; ok {
		return &status, nil
	}
	return nil, repository.ErrNotFound
}

func (m *statusRepoMock) GetByCode(_ context.Context, entityType, code string) (*domain.Status, error) {
	for _, status := range m.statuses {
		if status.EntityType == entityType && status.Code == code {
			return &status, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *statusRepoMock) ListByEntityType(_ context.Context, entityType string) ([]domain.Status, error) {
	result := make([]domain.Status, 0)
	for _, status := range m.statuses {
		if status.EntityType == entityType {
			result = append(result, status)
		}
	}
	return result, nil
}

type userRepoMock struct {
	users     map[string]domain.User
	createErr error
}

func newUserRepoMock(users ...domain.User) *userRepoMock {
	m := &userRepoMock{users: make(map[string]domain.User)}
	for _, user := range users {
		m.users[user.ID] = user
	}
	return m
}

func (m *userRepoMock) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok && user.DeletedAt == nil {
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username && user.DeletedAt == nil {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) List(_ context.Context, _ port.ListQuery) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		if user.DeletedAt == nil {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *userRepoMock) Count(ctx context.Context, query port.ListQuery) (int, error) {
	users, _ := m.List(ctx, query)
	return len(users), nil
}

func (m *userRepoMock) CountAll(ctx context.Context) (int, error) {
	return m.Count(ctx, port.ListQuery{})
}

func (m *userRepoMock) Update(_ context.Context, user domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) UpdatePasswordHash(_ context.Context, id, hash string, at time.Time) error {
	user, ok := m.users[id]
	if !ok || user.DeletedAt != nil {
		return repository.ErrNotFound
	}
	user.PasswordHash = hash
	user.UpdatedAt = at
	m.users[id] = user
	return nil
}

func (m *userRepoMock) SoftDelete(_ context.Context, id string, at time.Time) error {
	user, ok := m.users[id]
	if !ok || user.DeletedAt != nil {
		return repository.ErrNotFound
	}
	user.DeletedAt = &at
	m.users[id] = user
	return nil
}

type orgRepoMock struct {
	orgs map[string]domain.Organization
}

func newOrgRepoMock(orgs ...domain.Organization) *orgRepoMock {
	m := &orgRepoMock{orgs: make(map[string]domain.Organization)}
	for _, org := range orgs {
		m.orgs[org.ID] = org
	}
	return m
}

func (m *orgRepoMock) Create(_ context.Context, org domain.Organization) error {
	m.orgs[org.ID] = org
	return nil
}

func (m *orgRepoMock) GetByID(_ context.Context, id string) (*domain.Organization, error) {
	if org, ok := m.orgs[id]; ok && org.DeletedAt == nil {
		return &org, nil
	}
	return nil, repository.ErrNotFound
}

func (m *orgRepoMock) List(_ context.Context, _ port.ListQuery) ([]domain.Organization, error) {
	orgs := make([]domain.Organization, 0, len(m.orgs))
	for _, org := range m.orgs {
		if org.DeletedAt == nil {
			orgs = append(orgs, org)
		}
	}
	return orgs, nil
}

func (m *orgRepoMock) Count(ctx context.Context, query port.ListQuery) (int, error) {
	orgs, _ := m.List(ctx, query)
	return len(orgs), nil
}

func (m *orgRepoMock) CountAll(ctx context.Context) (int, error) {
	return m.Count(ctx, port.ListQuery{})
}

func (m *orgRepoMock) Update(_ context.Context, org domain.Organization) error {
	if _, ok := m.orgs[org.ID]; !ok {
		return repository.ErrNotFound
	}
	m.orgs[org.ID] = org
	return nil
}

func (m *orgRepoMock) SoftDelete(_ context.Context, id string, at time.Time) error {
	org, ok := m.orgs[id]
	if !ok || org.DeletedAt != nil {
		return repository.ErrNotFound
	}
	org.DeletedAt = &at
	m.orgs[id] = org
	return nil
}

type hasherMock struct {
	hashErr error
}

func (m *hasherMock) Hash(password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + password, nil
}

func (m *hasherMock) Verify(password, encoded string) (bool, error) {
	return encoded == "hashed:"+password, nil
}

type policyMock struct {
	rejectAll bool
}

func (m *policyMock) Validate(password string, _ domain.PasswordContext) error {
	if m.rejectAll || len(password) < 8 {
		return errors.New("password too weak")
	}
	return nil
}

var (
	_ port.RoleRepository          = (*roleRepoMock)(nil)
	_ port.MenuRepository          = (*menuRepoMock)(nil)
	_ port.PermissionRepository    = (*permissionRepoMock)(nil)
	_ port.AuditLogRepository      = (*auditRepoMock)(nil)
	_ port.EventPublisher          = (*publisherMock)(nil)
	_ port.StatusRepository        = (*statusRepoMock)(nil)
	_ port.UserRepository          = (*userRepoMock)(nil)
	_ port.OrganizationRepository  = (*orgRepoMock)(nil)
	_ port.Transactor              = (*txMock)(nil)
	_ port.PasswordHasher          = (*hasherMock)(nil)
	_ port.PasswordPolicyValidator = (*policyMock)(nil)
)
