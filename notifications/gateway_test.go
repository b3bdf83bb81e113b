package notifications

import (
	"context"
	"errors"
	"testing"

	"voyago/errs"
	"voyago/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevices struct {
	devices  map[string]models.UserDevice
	defaults []string
}

func (f *fakeDevices) Get(_ context.Context, userID string) (models.UserDevice, error) {
	device, ok := f.devices[userID]
	if !ok {
		return models.UserDevice{}, errs.NotFound("device", userID)
	}
	return device, nil
}

func (f *fakeDevices) CreateDefault(_ context.Context, userID string) error {
	f.defaults = append(f.defaults, userID)
	if f.devices == nil {
		f.devices = map[string]models.UserDevice{}
	}
	f.devices[userID] = models.UserDevice{UserID: userID, NotificationsEnabled: true}
	return nil
}

type fakeInbox struct {
	saved []models.Notification
	err   error
}

func (f *fakeInbox) Save(_ context.Context, n models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, n)
	return nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(_ context.Context, token, _, _ string, _ map[string]string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, token)
	return nil
}

type fakeLive struct {
	pushed []models.Notification
}

func (f *fakeLive) Push(_ string, n models.Notification) {
	f.pushed = append(f.pushed, n)
}

func msg(userID string) Message {
	return Message{
		UserID:    userID,
		Title:     "Trip Reminder",
		Body:      "Your trip 'Seoul' starts on 05/09/2026!",
		Type:      models.NotifTripReminder,
		TripID:    "t1",
		TripTitle: "Seoul",
	}
}

func TestNotifyUserCreatesDefaultDeviceAndSkips(t *testing.T) {
	devices := &fakeDevices{}
	inbox := &fakeInbox{}
	sender := &fakeSender{}
	g := NewGateway(devices, inbox, sender, nil)

	err := g.NotifyUser(context.Background(), msg("new-user"))
	require.NoError(t, err)
	assert.Equal(t, []string{"new-user"}, devices.defaults)
	assert.Empty(t, sender.sent)
	assert.Empty(t, inbox.saved)
}

func TestNotifyUserSkipsEmptyToken(t *testing.T) {
	devices := &fakeDevices{devices: map[string]models.UserDevice{
		"u1": {UserID: "u1", NotificationsEnabled: true},
	}}
	sender := &fakeSender{}
	g := NewGateway(devices, &fakeInbox{}, sender, nil)

	require.NoError(t, g.NotifyUser(context.Background(), msg("u1")))
	assert.Empty(t, sender.sent)
}

func TestNotifyUserHonorsOptOut(t *testing.T) {
	devices := &fakeDevices{devices: map[string]models.UserDevice{
		"u1": {UserID: "u1", FcmToken: "tok", NotificationsEnabled: false},
	}}
	sender := &fakeSender{}
	g := NewGateway(devices, &fakeInbox{}, sender, nil)

	require.NoError(t, g.NotifyUser(context.Background(), msg("u1")))
	assert.Empty(t, sender.sent)
}

func TestNotifyUserDeliveryFailure(t *testing.T) {
	devices := &fakeDevices{devices: map[string]models.UserDevice{
		"u1": {UserID: "u1", FcmToken: "tok", NotificationsEnabled: true},
	}}
	inbox := &fakeInbox{}
	sender := &fakeSender{err: errors.New("token not registered")}
	g := NewGateway(devices, inbox, sender, nil)

	err := g.NotifyUser(context.Background(), msg("u1"))
	assert.ErrorIs(t, err, errs.ErrDeliveryFailure)
	// failed deliveries never reach the inbox
	assert.Empty(t, inbox.saved)
}

func TestNotifyUserSuccessPersistsInboxAndPushesLive(t *testing.T) {
	devices := &fakeDevices{devices: map[string]models.UserDevice{
		"u1": {UserID: "u1", FcmToken: "tok", NotificationsEnabled: true},
	}}
	inbox := &fakeInbox{}
	sender := &fakeSender{}
	hub := &fakeLive{}
	g := NewGateway(devices, inbox, sender, hub)

	require.NoError(t, g.NotifyUser(context.Background(), msg("u1")))
	assert.Equal(t, []string{"tok"}, sender.sent)

	require.Len(t, inbox.saved, 1)
	n := inbox.saved[0]
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, models.NotifTripReminder, n.Type)
	assert.Equal(t, "t1", n.TripID)
	assert.Equal(t, "Seoul", n.TripTitle)
	assert.False(t, n.IsRead)

	require.Len(t, hub.pushed, 1)
	assert.Equal(t, n.ID, hub.pushed[0].ID)
}

func TestNotifyUserInboxFailureIsSwallowed(t *testing.T) {
	devices := &fakeDevices{devices: map[string]models.UserDevice{
		"u1": {UserID: "u1", FcmToken: "tok", NotificationsEnabled: true},
	}}
	inbox := &fakeInbox{err: errors.New("mongo down")}
	hub := &fakeLive{}
	g := NewGateway(devices, inbox, &fakeSender{}, hub)

	assert.NoError(t, g.NotifyUser(context.Background(), msg("u1")))
	// no inbox record, no live push of a record that does not exist
	assert.Empty(t, hub.pushed)
}
