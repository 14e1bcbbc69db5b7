package realtime

import (
	"fmt"
	"regexp"
	"strconv"
)

// Destination conventions carried over from the STOMP frontend:
// clients address sends to /app/chat/{channelId}/send, joins to
// /app/chat/{channelId}/join/{userId}, and every broadcast for a channel
// goes out on /topic/chat/{channelId}.
const topicPrefix = "/topic/chat/"

var (
	sendDestinationRe  = regexp.MustCompile(`^/app/chat/(\d+)/send$`)
	joinDestinationRe  = regexp.MustCompile(`^/app/chat/(\d+)/join/(\d+)$`)
	leaveDestinationRe = regexp.MustCompile(`^/app/chat/(\d+)/leave$`)
)

// ChannelTopic returns the broadcast topic for a channel.
func ChannelTopic(channelID int64) string {
	return fmt.Sprintf("%s%d", topicPrefix, channelID)
}

// ChannelIDFromTopic parses the channel id out of a broadcast topic string.
func ChannelIDFromTopic(topic string) (int64, bool) {
	if len(topic) <= len(topicPrefix) || topic[:len(topicPrefix)] != topicPrefix {
		return 0, false
	}
	id, err := strconv.ParseInt(topic[len(topicPrefix):], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseSendDestination extracts the channel id from an inbound send address.
func ParseSendDestination(destination string) (channelID int64, ok bool) {
	m := sendDestinationRe.FindStringSubmatch(destination)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	return id, err == nil
}

// ParseJoinDestination extracts the channel and user ids from an inbound
// join address.
func ParseJoinDestination(destination string) (channelID, userID int64, ok bool) {
	m := joinDestinationRe.FindStringSubmatch(destination)
	if m == nil {
		return 0, 0, false
	}
	cid, err1 := strconv.ParseInt(m[1], 10, 64)
	uid, err2 := strconv.ParseInt(m[2], 10, 64)
	return cid, uid, err1 == nil && err2 == nil
}

// ParseLeaveDestination extracts the channel id from an inbound leave address.
func ParseLeaveDestination(destination string) (channelID int64, ok bool) {
	m := leaveDestinationRe.FindStringSubmatch(destination)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	return id, err == nil
}
