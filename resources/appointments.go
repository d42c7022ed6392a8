package resources

import (
	"context"

	"github.com/NexoraTechHQ/nexora-sub000/gateway"
)

func (c *Client) ListAppointments(ctx context.Context, opts ListOptions) ([]Appointment, error) {
	var page listPage[Appointment]
	if err := c.gw.Get(ctx, "/v1/appointments", &page, gateway.WithQuery(opts.query())); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	var appointment Appointment
	if err := c.gw.Get(ctx, "/v1/appointments/"+id, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (c *Client) CreateAppointment(ctx context.Context, appointment Appointment) (*Appointment, error) {
	var created Appointment
	if err := c.gw.Post(ctx, "/v1/appointments", appointment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, appointment Appointment) (*Appointment, error) {
	var updated Appointment
	if err := c.gw.Put(ctx, "/v1/appointments/"+appointment.ID, appointment, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.gw.Delete(ctx, "/v1/appointments/"+id)
}
