package geocoder

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"dispatch/internal/entities"
)

func toRequest(address string) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]any{
		"address": address,
	})
	if err != nil {
		return nil, fmt.Errorf("build validate request: %w", err)
	}
	return req, nil
}

// toDomain ответ без valid=true означает, что адрес не распознан.
func toDomain(resp *structpb.Struct) (*entities.GeocodedAddress, error) {
	fields := resp.GetFields()
	if !fields["valid"].GetBoolValue() {
		return &entities.GeocodedAddress{PlaceID: entities.InvalidPlaceID}, nil
	}

	lat, okLat := fields["lat"].GetKind().(*structpb.Value_NumberValue)
	lng, okLng := fields["lng"].GetKind().(*structpb.Value_NumberValue)
	if !okLat || !okLng {
		return nil, fmt.Errorf("%w: coordinates missing", ErrMalformedResponse)
	}

	placeID := fields["place_id"].GetStringValue()
	if placeID == "" {
		return nil, fmt.Errorf("%w: place_id missing", ErrMalformedResponse)
	}

	return &entities.GeocodedAddress{
		Formatted: fields["formatted_address"].GetStringValue(),
		Location:  entities.Point{Lat: lat.NumberValue, Lng: lng.NumberValue},
		PlaceID:   placeID,
	}, nil
}
