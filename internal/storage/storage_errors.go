package storage

import st "server-herald/internal/storagetypes"

// AppendError persists an error record under its guild, or under the global
// record when it has none.
func (s *Storage) AppendError(rec st.ErrorRecord) error {
	return s.updateGuildRecord(rec.GuildID, func(r *st.Record) {
		r.Errors = trimTail(append(r.Errors, rec), errorHistoryLimit)
	})
}

// GetErrors returns the stored error records for a guild, oldest first.
func (s *Storage) GetErrors(guildID string) ([]st.ErrorRecord, error) {
	record, err := s.readGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.Errors, nil
}
