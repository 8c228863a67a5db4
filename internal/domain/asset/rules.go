package asset

func CanDeleteVehicle(v Vehicle) bool {
	return !v.AssignedToTransport
}

func DeleteVehicleTooltip(v Vehicle) string {
	if v.AssignedToTransport {
		return "Cannot delete: vehicle is assigned to a transport."
	}
	return "Delete vehicle"
}

// CanChangeVehicleStatus is false while the vehicle runs an in-progress transport.
func CanChangeVehicleStatus(v Vehicle) bool {
	return !v.InProgressAssigned
}

func CanDeleteTrailer(t Trailer) bool {
	return !t.AssignedToTransport
}

func DeleteTrailerTooltip(t Trailer) string {
	if t.AssignedToTransport {
		return "Cannot delete: trailer is assigned to a transport."
	}
	return "Delete trailer"
}

func CanChangeTrailerStatus(t Trailer) bool {
	return !t.InProgressAssigned
}
