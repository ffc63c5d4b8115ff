package iso9660

import "time"

// decodeRecordingTime decodes the 7 byte directory record date: years since
// 1900, month, day, hour, minute, second and the GMT offset in signed 15
// minute intervals. An all-zero field means "not specified".
func decodeRecordingTime(b []byte) time.Time {
	if len(b) < recordingDateTimeSize {
		return time.Time{}
	}
	zero := true
	for _, v := range b[:6] {
		if v != 0 {
			zero = false
			break
		}
	}
	if zero {
		return time.Time{}
	}

	offset := int(int8(b[6])) * 15 * 60
	loc := time.UTC
	if offset != 0 {
		loc = time.FixedZone("", offset)
	}
	return time.Date(
		1900+int(b[0]),
		time.Month(b[1]),
		int(b[2]),
		int(b[3]),
		int(b[4]),
		int(b[5]),
		0,
		loc,
	)
}
