package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/auth/domain"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	admin := &Actor{ID: "admin-id", Role: domain.RoleAdmin, Username: "root"}
	doctor := &Actor{ID: "doctor-id", Role: domain.RoleDoctor, Username: "gregory"}
	patient := &Actor{ID: "patient-id", Role: domain.RolePatient, Username: "bob"}

	t.Run("anonymous may register and login", func(t *testing.T) {
		require.NoError(t, Authorize(nil, ActionRegister, ""))
		require.NoError(t, Authorize(nil, ActionLogin, ""))
	})

	t.Run("anonymous denied everything else", func(t *testing.T) {
		require.ErrorIs(t, Authorize(nil, ActionListUsers, ""), ErrUnauthenticated)
		require.ErrorIs(t, Authorize(nil, ActionReadUser, "patient-id"), ErrUnauthenticated)
		require.ErrorIs(t, Authorize(nil, ActionReadOwnProfile, ""), ErrUnauthenticated)
	})

	t.Run("actor with empty id is anonymous", func(t *testing.T) {
		ghost := &Actor{Role: domain.RoleAdmin}
		require.ErrorIs(t, Authorize(ghost, ActionListUsers, ""), ErrUnauthenticated)
	})

	t.Run("admin may do anything", func(t *testing.T) {
		require.NoError(t, Authorize(admin, ActionListUsers, ""))
		require.NoError(t, Authorize(admin, ActionReadUser, patient.ID))
		require.NoError(t, Authorize(admin, ActionUpdateUser, doctor.ID))
		require.NoError(t, Authorize(admin, ActionDeleteUser, patient.ID))
	})

	t.Run("admin may delete itself", func(t *testing.T) {
		require.NoError(t, Authorize(admin, ActionDeleteUser, admin.ID))
	})

	t.Run("non-admin may act on itself only", func(t *testing.T) {
		for _, actor := range []*Actor{doctor, patient} {
			require.NoError(t, Authorize(actor, ActionReadUser, actor.ID))
			require.NoError(t, Authorize(actor, ActionUpdateUser, actor.ID))
			require.NoError(t, Authorize(actor, ActionDeleteUser, actor.ID))
		}
	})

	t.Run("non-admin denied on other identities", func(t *testing.T) {
		require.ErrorIs(t, Authorize(doctor, ActionReadUser, patient.ID), ErrForbidden)
		require.ErrorIs(t, Authorize(patient, ActionUpdateUser, doctor.ID), ErrForbidden)
		require.ErrorIs(t, Authorize(patient, ActionDeleteUser, admin.ID), ErrForbidden)
	})

	t.Run("clinical roles grant no identity privilege", func(t *testing.T) {
		// A doctor is not an admin: every role below admin is a peer as
		// far as the identity surface goes.
		nurse := &Actor{ID: "nurse-id", Role: domain.RoleNurse}
		receptionist := &Actor{ID: "rec-id", Role: domain.RoleReceptionist}
		require.ErrorIs(t, Authorize(nurse, ActionListUsers, ""), ErrForbidden)
		require.ErrorIs(t, Authorize(receptionist, ActionReadUser, patient.ID), ErrForbidden)
	})

	t.Run("list users is admin only", func(t *testing.T) {
		require.ErrorIs(t, Authorize(patient, ActionListUsers, ""), ErrForbidden)
		require.ErrorIs(t, Authorize(doctor, ActionListUsers, ""), ErrForbidden)
	})

	t.Run("own profile open to any authenticated actor", func(t *testing.T) {
		require.NoError(t, Authorize(patient, ActionReadOwnProfile, ""))
		require.NoError(t, Authorize(doctor, ActionUpdateOwnProfile, ""))
	})

	t.Run("unknown action denied", func(t *testing.T) {
		require.ErrorIs(t, Authorize(patient, Action("frobnicate"), ""), ErrForbidden)
	})
}
