package redisrepo

import "fmt"

const ns = "staygo:v1"

func KeyHotelList() string {
	return ns + ":hotels:all"
}

func KeyHotelSummary(hotelID int64) string {
	return fmt.Sprintf("%s:hotel:%d:summary", ns, hotelID)
}

func KeyHotelRooms(hotelID int64) string {
	return fmt.Sprintf("%s:hotel:%d:rooms", ns, hotelID)
}

func KeyHotelReviews(hotelID int64) string {
	return fmt.Sprintf("%s:hotel:%d:reviews", ns, hotelID)
}

func KeySession(token string) string {
	return fmt.Sprintf("%s:session:%s", ns, token)
}

func KeyIdemBooking(userID int64, idemKey string) string {
	return fmt.Sprintf("%s:idem:bookings:%d:%s", ns, userID, idemKey)
}
