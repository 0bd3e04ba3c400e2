package postgres

import (
	"context"
	"contacts/internal/domain/models"
	"contacts/internal/storage"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactRowColumns = []string{"id", "name", "email", "phone", "favorite", "owner"}

func TestSaveContact(t *testing.T) {
	s, mock := newStorageWithMock(t)

	id, owner := uuid.New(), uuid.New()
	mock.ExpectQuery(`(?s)^INSERT INTO contacts \(id, name, email, phone, favorite, owner\).*RETURNING`).
		WithArgs(id, "Ann", "ann@b.io", "123", false, owner).
		WillReturnRows(sqlmock.NewRows(contactRowColumns).
			AddRow(id.String(), "Ann", "ann@b.io", "123", false, owner.String()))

	got, err := s.SaveContact(context.Background(), models.Contact{
		ID: id, Name: "Ann", Email: "ann@b.io", Phone: "123", Owner: owner,
	})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, owner, got.Owner)
}

func TestContact_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`FROM contacts WHERE id = \$1`).WillReturnError(sql.ErrNoRows)

	_, err := s.Contact(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrContactNotFound)
}

func TestContacts_Paginated(t *testing.T) {
	s, mock := newStorageWithMock(t)

	owner := uuid.New()
	mock.ExpectQuery(`(?s)FROM contacts WHERE owner = \$1 ORDER BY created_at, id LIMIT \$2 OFFSET \$3$`).
		WithArgs(owner, 2, 4).
		WillReturnRows(sqlmock.NewRows(contactRowColumns).
			AddRow(uuid.NewString(), "Eve", "eve@b.io", "5", false, owner.String()))

	got, err := s.Contacts(context.Background(), models.ContactsFilter{Owner: owner, Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Eve", got[0].Name)
}

func TestContacts_FavoriteNoLimit(t *testing.T) {
	s, mock := newStorageWithMock(t)

	owner := uuid.New()
	fav := true
	mock.ExpectQuery(`(?s)FROM contacts WHERE owner = \$1 AND favorite = \$2 ORDER BY created_at, id$`).
		WithArgs(owner, true).
		WillReturnRows(sqlmock.NewRows(contactRowColumns))

	got, err := s.Contacts(context.Background(), models.ContactsFilter{Owner: owner, Favorite: &fav})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdateContact_OnlyGivenFields(t *testing.T) {
	s, mock := newStorageWithMock(t)

	id, owner := uuid.New(), uuid.New()
	phone := "777"
	fav := true
	mock.ExpectQuery(`^UPDATE contacts SET phone = \$1, favorite = \$2, updated_at = now\(\) WHERE id = \$3 RETURNING`).
		WithArgs(phone, true, id).
		WillReturnRows(sqlmock.NewRows(contactRowColumns).
			AddRow(id.String(), "Ann", "ann@b.io", phone, true, owner.String()))

	got, err := s.UpdateContact(context.Background(), id, models.ContactFields{Phone: &phone, Favorite: &fav})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.True(t, got.Favorite)
}

func TestUpdateContact_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	name := "Bob"
	mock.ExpectQuery(`UPDATE contacts SET name = \$1`).WillReturnError(sql.ErrNoRows)

	_, err := s.UpdateContact(context.Background(), uuid.New(), models.ContactFields{Name: &name})
	require.ErrorIs(t, err, storage.ErrContactNotFound)
}

func TestDeleteContact(t *testing.T) {
	s, mock := newStorageWithMock(t)

	id, owner := uuid.New(), uuid.New()
	mock.ExpectQuery(`DELETE FROM contacts WHERE id = \$1 RETURNING`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(contactRowColumns).
			AddRow(id.String(), "Ann", "ann@b.io", "1", false, owner.String()))

	got, err := s.DeleteContact(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestDeleteContact_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`DELETE FROM contacts`).WillReturnError(sql.ErrNoRows)

	_, err := s.DeleteContact(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrContactNotFound)
}
