package lifecycle

import "github.com/lilpaf/Super-Barber-sub000/internal/httperr"

var (
	ErrUserNotFound       = httperr.NotFound("user_not_found", "User does not exist.")
	ErrNotABarber         = httperr.NotFound("barber_not_found", "Barber does not exist.")
	ErrBarbershopNotFound = httperr.NotFound("barbershop_not_found", "Barbershop does not exist.")
	ErrCategoryNotFound   = httperr.New(httperr.KindNotFound, "category_not_found", "CategoryID", "Category does not exist.")
	ErrServiceNotFound    = httperr.NotFound("service_not_found", "Service does not exist.")
	ErrServiceNotOffered  = httperr.NotFound("service_not_offered", "The barbershop does not offer this service.")
	ErrNotMember          = httperr.NotFound("barber_not_member", "The barber does not work in this barbershop.")

	ErrNotOwner      = httperr.Forbidden("not_shop_owner", "Only an owner of the barbershop can do this.")
	ErrNotAuthorized = httperr.Forbidden("not_authorized", "You are not allowed to do this.")

	ErrNotOnlyOwner       = httperr.Conflict("not_only_owner", "You are not the only owner of this barbershop. Resign or transfer ownership first.")
	ErrLastOwner          = httperr.Conflict("last_owner", "A barbershop must keep at least one owner. Transfer ownership or delete the barbershop first.")
	ErrShopExists         = httperr.Conflict("shop_already_exists", "A barbershop with this name and address already exists.")
	ErrServiceExists      = httperr.Conflict("service_already_offered", "The barbershop already offers this service.")
	ErrAlreadyMember      = httperr.Conflict("already_member", "The barber already works in this barbershop.")
	ErrAlreadyOwner       = httperr.Conflict("already_owner", "The barber is already an owner.")
	ErrNotAnOwner         = httperr.Conflict("not_an_owner", "The barber is not an owner.")
	ErrUseResign          = httperr.Conflict("use_resign", "You cannot remove your own ownership. Resign from the barbershop instead.")
	ErrAlreadyBarber      = httperr.Conflict("already_barber", "You already have a barber profile.")
	ErrAlreadyAvailable   = httperr.Conflict("already_available", "The barber is already available.")
	ErrAlreadyUnavailable = httperr.Conflict("already_unavailable", "The barber is already unavailable.")

	ErrInvalidCity     = httperr.Invalid("invalid_city", "City", "City is required.")
	ErrInvalidDistrict = httperr.Invalid("invalid_district", "District", "District is required.")
	ErrInvalidName     = httperr.Invalid("invalid_name", "Name", "Name is required.")
)
