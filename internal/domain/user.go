package domain

// User is the authenticated account resolved by the Session Source.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Role            string `json:"role,omitempty"`
	AssignedTruckID string `json:"assigned_truck_id,omitempty"`
}
