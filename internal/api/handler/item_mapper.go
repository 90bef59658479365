package handler

import "github.com/lostfound/board-api/internal/core/ports"

func toCreateInput(req createItemRequest, idempotencyKey string) ports.CreateItemInput {
	return ports.CreateItemInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Category:       req.Category,
		Location:       toLocationInput(req.Location),
		DateLost:       req.DateLost.ptr(),
		DateFound:      req.DateFound.ptr(),
		Images:         req.Images,
		ContactInfo:    toContactInfoInput(req.ContactInfo),
		IdempotencyKey: idempotencyKey,
	}
}

func toUpdateInput(req updateItemRequest) ports.UpdateItemInput {
	in := ports.UpdateItemInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Category:       req.Category,
		DateLost:       req.DateLost.value,
		DateFound:      req.DateFound.value,
		ClearDateLost:  req.DateLost.cleared(),
		ClearDateFound: req.DateFound.cleared(),
		Images:         req.Images,
	}
	if req.Location != nil {
		loc := toLocationInput(*req.Location)
		in.Location = &loc
	}
	if req.ContactInfo != nil {
		ci := toContactInfoInput(*req.ContactInfo)
		in.ContactInfo = &ci
	}
	return in
}

func toLocationInput(req locationRequest) ports.LocationInput {
	loc := ports.LocationInput{Address: req.Address, City: req.City}
	if req.Coordinates != nil && req.Coordinates.Lat != nil && req.Coordinates.Lng != nil {
		loc.Coordinates = &ports.CoordinatesInput{Lat: *req.Coordinates.Lat, Lng: *req.Coordinates.Lng}
	}
	return loc
}

func toContactInfoInput(req contactInfoRequest) ports.ContactInfoInput {
	return ports.ContactInfoInput{
		Phone:            req.Phone,
		Email:            req.Email,
		PreferredContact: req.PreferredContact,
	}
}
